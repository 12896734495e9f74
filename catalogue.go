package opts

import (
	"strconv"
	"strings"
)

// OptionID identifies one option. The numeric value doubles as the row index
// presented to list views.
type OptionID int

const (
	StartAtStartup      OptionID = iota // bool
	HideTrayIcon                        // bool
	MinimizeToTray                      // bool
	MapPortUPnP                         // bool
	MinimizeOnClose                     // bool
	ProxyUse                            // bool
	ProxyIP                             // string
	ProxyPort                           // int
	ProxyUseTor                         // bool
	ProxyIPTor                          // string
	ProxyPortTor                        // int
	DisplayUnit                         // int
	ThirdPartyTxUrls                    // string
	Language                            // string
	Theme                               // string
	MiningPool                          // string
	MinerPath                           // string
	MinerExtraParams                    // string
	MinerStartUp                        // bool
	MiningUsername                      // string
	MiningPassword                      // string
	CoinControlFeatures                 // bool
	ThreadsScriptVerif                  // int
	DatabaseCache                       // int
	SpendZeroConfChange                 // bool
	Listen                              // bool
	OptionIDRowCount
)

// Display units, in the order presented by unit selectors.
const (
	UnitBTC = iota
	UnitMilliBTC
	UnitMicroBTC
	UnitSatoshi
)

const (
	// MaxScriptCheckThreads bounds ThreadsScriptVerif; 0 means auto-detect.
	MaxScriptCheckThreads = 16
	MinDatabaseCache      = 4
	MaxDatabaseCache      = 16384
	DefaultDatabaseCache  = 450
	DefaultProxyAddress   = "127.0.0.1"
	DefaultProxyPort      = 9050
	DefaultTheme          = "light"
)

// Definition is the static description of one option.
type Definition struct {
	ID      OptionID
	Name    string
	Kind    Kind
	Default Value
	// Key is the persistence key. It never changes once released.
	Key string
	// Arg is the external argument that may override the option for a run,
	// e.g. "-dbcache". Empty when the option cannot be overridden.
	Arg string
	// RequiresRestart marks options whose changes only apply after restart.
	RequiresRestart bool
	// Local marks display-layer settings. They persist like any other option
	// but changes are not propagated beyond the model.
	Local bool
	// Rule is a boolean expression over `value` that stored and submitted
	// values must satisfy.
	Rule string
	// Normalize adjusts persisted values on load.
	Normalize func(Value) Value
}

var catalogue = [OptionIDRowCount]Definition{
	{ID: StartAtStartup, Name: "StartAtStartup", Kind: KindBool, Default: Bool(false), Key: "fStartAtStartup", Local: true},
	{ID: HideTrayIcon, Name: "HideTrayIcon", Kind: KindBool, Default: Bool(false), Key: "fHideTrayIcon", Local: true},
	{ID: MinimizeToTray, Name: "MinimizeToTray", Kind: KindBool, Default: Bool(false), Key: "fMinimizeToTray", Local: true},
	{ID: MapPortUPnP, Name: "MapPortUPnP", Kind: KindBool, Default: Bool(false), Key: "fUseUPnP", Arg: "-upnp"},
	{ID: MinimizeOnClose, Name: "MinimizeOnClose", Kind: KindBool, Default: Bool(false), Key: "fMinimizeOnClose", Local: true},
	{ID: ProxyUse, Name: "ProxyUse", Kind: KindBool, Default: Bool(false), Key: "fUseProxy", RequiresRestart: true},
	{ID: ProxyIP, Name: "ProxyIP", Kind: KindString, Default: String(DefaultProxyAddress), Key: "addrProxyIP", Arg: "-proxy", RequiresRestart: true, Rule: "isIP(value)"},
	{ID: ProxyPort, Name: "ProxyPort", Kind: KindInt, Default: Int(DefaultProxyPort), Key: "nProxyPort", RequiresRestart: true, Rule: "value >= 1 && value <= 65535"},
	{ID: ProxyUseTor, Name: "ProxyUseTor", Kind: KindBool, Default: Bool(false), Key: "fUseSeparateProxyTor", RequiresRestart: true},
	{ID: ProxyIPTor, Name: "ProxyIPTor", Kind: KindString, Default: String(DefaultProxyAddress), Key: "addrSeparateProxyTorIP", Arg: "-onion", RequiresRestart: true, Rule: "isIP(value)"},
	{ID: ProxyPortTor, Name: "ProxyPortTor", Kind: KindInt, Default: Int(DefaultProxyPort), Key: "nSeparateProxyTorPort", RequiresRestart: true, Rule: "value >= 1 && value <= 65535"},
	{ID: DisplayUnit, Name: "DisplayUnit", Kind: KindInt, Default: Int(UnitBTC), Key: "nDisplayUnit", Local: true, Rule: "value >= 0 && value <= 3"},
	{ID: ThirdPartyTxUrls, Name: "ThirdPartyTxUrls", Kind: KindString, Default: String(""), Key: "strThirdPartyTxUrls", RequiresRestart: true, Local: true, Rule: "urlTemplates(value)"},
	{ID: Language, Name: "Language", Kind: KindString, Default: String(""), Key: "language", Arg: "-lang", RequiresRestart: true, Local: true},
	{ID: Theme, Name: "Theme", Kind: KindString, Default: String(DefaultTheme), Key: "theme", Local: true},
	{ID: MiningPool, Name: "MiningPool", Kind: KindString, Default: String(""), Key: "miningPool", Local: true},
	{ID: MinerPath, Name: "MinerPath", Kind: KindString, Default: String(""), Key: "minerPath", Local: true},
	{ID: MinerExtraParams, Name: "MinerExtraParams", Kind: KindString, Default: String(""), Key: "minerExtraParams", Local: true},
	{ID: MinerStartUp, Name: "MinerStartUp", Kind: KindBool, Default: Bool(false), Key: "minerStartUp", Local: true},
	{ID: MiningUsername, Name: "MiningUsername", Kind: KindString, Default: String(""), Key: "miningUsername", Local: true},
	{ID: MiningPassword, Name: "MiningPassword", Kind: KindString, Default: String(""), Key: "miningPassword", Local: true},
	{ID: CoinControlFeatures, Name: "CoinControlFeatures", Kind: KindBool, Default: Bool(false), Key: "fCoinControlFeatures", Local: true},
	{ID: ThreadsScriptVerif, Name: "ThreadsScriptVerif", Kind: KindInt, Default: Int(0), Key: "nThreadsScriptVerif", Arg: "-par", RequiresRestart: true,
		Rule: "value >= 0 && value <= 16", Normalize: clampInt(0, MaxScriptCheckThreads)},
	{ID: DatabaseCache, Name: "DatabaseCache", Kind: KindInt, Default: Int(DefaultDatabaseCache), Key: "nDatabaseCache", Arg: "-dbcache", RequiresRestart: true,
		Rule: "value >= 4 && value <= 16384", Normalize: clampInt(MinDatabaseCache, MaxDatabaseCache)},
	{ID: SpendZeroConfChange, Name: "SpendZeroConfChange", Kind: KindBool, Default: Bool(true), Key: "bSpendZeroConfChange", Arg: "-spendzeroconfchange", RequiresRestart: true},
	{ID: Listen, Name: "Listen", Kind: KindBool, Default: Bool(true), Key: "fListen", Arg: "-listen", RequiresRestart: true},
}

func clampInt(lo, hi int) func(Value) Value {
	return func(v Value) Value {
		n := v.AsInt()
		if n < lo {
			return Int(lo)
		}
		if n > hi {
			return Int(hi)
		}
		return v
	}
}

// Catalogue returns every definition in row order.
func Catalogue() []Definition {
	out := make([]Definition, len(catalogue))
	copy(out, catalogue[:])
	return out
}

// Lookup returns the definition for id.
func Lookup(id OptionID) (Definition, bool) {
	if !id.Valid() {
		return Definition{}, false
	}
	return catalogue[id], true
}

// LookupKey finds a definition by persistence key.
func LookupKey(key string) (Definition, bool) {
	for _, def := range catalogue {
		if def.Key == key {
			return def, true
		}
	}
	return Definition{}, false
}

// ParseOptionID resolves an option name (case-insensitive), persistence key
// or override argument, with or without its dash, to its identifier.
func ParseOptionID(name string) (OptionID, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, false
	}
	for _, def := range catalogue {
		if strings.EqualFold(def.Name, name) || def.Key == name {
			return def.ID, true
		}
		if def.Arg != "" && argName(def.Arg) == argName(name) {
			return def.ID, true
		}
	}
	return 0, false
}

// Valid reports whether id lies inside the closed enumeration.
func (id OptionID) Valid() bool {
	return id >= 0 && id < OptionIDRowCount
}

func (id OptionID) String() string {
	if !id.Valid() {
		return "OptionID(" + strconv.Itoa(int(id)) + ")"
	}
	return catalogue[id].Name
}
