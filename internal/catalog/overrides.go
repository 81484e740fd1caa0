package catalog

import "strings"

// overrides maps normalized titles to known catalog app ids, consulted
// before any network search. Folder names for these titles rarely survive
// fuzzy search (roman numerals, series abbreviations, storefront renames),
// so an exact hit short-circuits with confidence 1.0.
//
// An id of 0 marks a title known NOT to be on the catalog (other-store
// exclusives); those resolve to no match without a network call.
var overrides = map[string]int64{
	"cyberpunk 2077":          1091500,
	"baldur's gate 3":         1086940,
	"elden ring":              1245620,
	"elden ring nightreign":   2622380,
	"doom eternal":            782330,
	"doom 2016":               379720,
	"doom":                    379720,
	"days gone":               1259420,
	"gta v":                   271590,
	"grand theft auto v":      271590,
	"gta iv":                  12210,
	"grand theft auto iv":     12210,
	"snowrunner":              1465360,
	"arma 3":                  107410,
	"forza horizon 5":         1551360,
	"halo infinite":           1240440,
	"stalker 2 heart of chornobyl": 1643320,
	"s.t.a.l.k.e.r. 2":        1643320,
	"kingdom come deliverance ii": 1771300,
	"frostpunk":               323190,
	"frostpunk 2":             1601580,
	"cities skylines ii":      949230,
	"farming simulator 22":    1248130,
	"farming simulator 25":    2300320,
	"age of empires iv":       1466860,
	"age of empires ii definitive edition": 813780,
	"hitman 3":                1659040,
	"hitman world of assassination": 1659040,
	"assassin's creed odyssey": 812140,
	"assassin's creed mirage":  2208920,
	"far cry 5":               552520,
	"hollow knight":           367520,
	"hollow knight silksong":  1030300,
	"final fantasy xvi":       2515020,
	"conan exiles":            440900,
	"space engineers":         244850,
	"dirt rally 2.0":          690790,

	// Fallout series
	"fallout 4":         377160,
	"fallout 4 goty":    377160,
	"fallout 76":        1151340,
	"fallout new vegas": 22380,
	"fallout 3":         22300,

	// Truck and train simulators
	"euro truck simulator 2":  227300,
	"american truck simulator": 270880,
	"train sim world 4":       2362320,

	// Big open-world titles whose folders rarely match by search
	"red dead redemption 2": 1174180,
	"rdr2":                  1174180,
	"the witcher 3":         292030,
	"witcher 3":             292030,
	"the witcher 3 wild hunt": 292030,
	"death stranding":       1190460,
	"horizon zero dawn":     1151640,
	"god of war":            1593500,
	"ghost of tsushima director's cut": 2215430,

	// FromSoftware
	"sekiro":                  814380,
	"sekiro shadows die twice": 814380,
	"dark souls iii":          374320,
	"dark souls remastered":   570940,
	"armored core vi":         1888160,

	// Capcom
	"resident evil 4":      2050650,
	"resident evil village": 1196590,
	"resident evil 2":      883710,
	"resident evil 3":      952060,
	"monster hunter world": 582010,
	"monster hunter rise":  1446780,

	// Racing
	"assetto corsa":              244210,
	"assetto corsa competizione": 805550,
	"f1 24":                      2488620,
	"need for speed heat":        1222680,
	"need for speed unbound":     1846380,

	// Strategy
	"total war warhammer iii": 1142710,
	"civilization vi":         289070,
	"civ 6":                   289070,
	"crusader kings iii":      1158310,
	"europa universalis iv":   236850,
	"eu4":                     236850,
	"stellaris":               281990,
	"hearts of iron iv":       394360,
	"hoi4":                    394360,

	// Indie staples
	"hades":          1145360,
	"hades ii":       1145350,
	"celeste":        504230,
	"cuphead":        268910,
	"dead cells":     588650,
	"stardew valley": 413150,
	"terraria":       105600,
	"valheim":        892970,
	"satisfactory":   526870,
	"factorio":       427520,
	"rimworld":       294100,
	"subnautica":     264710,

	// Survival and crafting
	"rust":                 252490,
	"ark survival evolved": 346110,
	"the forest":           242760,
	"sons of the forest":   1326470,
	"raft":                 648800,
	"grounded":             962130,
	"v rising":             1604030,
	"palworld":             1623730,

	// Elder Scrolls
	"oblivion remastered":      22330,
	"tes iv oblivion remastered": 22330,
	"skyrim special edition":   489830,
	"skyrim anniversary edition": 489830,

	// Warhammer
	"wh40k space marine": 55150,
	"space marine 2":     2183900,

	// Command & Conquer
	"c&c remastered collection":           1213210,
	"command & conquer remastered collection": 1213210,
	"c&c red alert 3":                     17480,
	"c&c 3 tiberium wars":                 24790,

	// Other AAA
	"starfield":       1716740,
	"hogwarts legacy": 990080,
	"marvel's spider-man remastered": 1817070,
	"lies of p":       1627720,
	"black myth wukong": 2358720,

	// Not on the catalog (other-store exclusives), id 0 skips search
	"diablo 2 resurrected":  0,
	"diablo ii resurrected": 0,
	"alan wake 2":           0,
	"super mario galaxy":    0,
	"pokemon legends z-a":   0,
}

// LookupOverride returns the override app id for an exact, case-insensitive
// title match. The second return reports whether an override exists at all;
// the caller must still treat an id of 0 as "known not on catalog".
func LookupOverride(title string) (int64, bool) {
	id, ok := overrides[strings.ToLower(strings.TrimSpace(title))]
	return id, ok
}
