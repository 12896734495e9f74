package opts

import (
	"testing"
)

func TestCatalogueIsComplete(t *testing.T) {
	defs := Catalogue()
	if len(defs) != 26 || len(defs) != int(OptionIDRowCount) {
		t.Fatalf("expected 26 definitions, got %d", len(defs))
	}

	keys := map[string]OptionID{}
	for i, def := range defs {
		if def.ID != OptionID(i) {
			t.Fatalf("definition %d carries id %d", i, def.ID)
		}
		if def.Name == "" || def.Key == "" {
			t.Fatalf("definition %d lacks name or key: %+v", i, def)
		}
		if def.Default.Kind() != def.Kind {
			t.Fatalf("%s default kind %s does not match %s", def.Name, def.Default.Kind(), def.Kind)
		}
		if prev, dup := keys[def.Key]; dup {
			t.Fatalf("key %q shared by %s and %s", def.Key, prev, def.ID)
		}
		keys[def.Key] = def.ID
	}
}

func TestCatalogueDefaultsSatisfyNormalize(t *testing.T) {
	for _, def := range Catalogue() {
		if def.Normalize == nil {
			continue
		}
		if got := def.Normalize(def.Default); got != def.Default {
			t.Fatalf("%s default %s normalizes to %s", def.Name, def.Default, got)
		}
	}
}

func TestCatalogueReturnsCopy(t *testing.T) {
	defs := Catalogue()
	defs[0].Key = "mutated"

	if def, _ := Lookup(StartAtStartup); def.Key != "fStartAtStartup" {
		t.Fatalf("expected catalogue to be immutable, got key %q", def.Key)
	}
}

func TestLookup(t *testing.T) {
	def, ok := Lookup(DatabaseCache)
	if !ok || def.Key != "nDatabaseCache" || def.Arg != "-dbcache" || !def.RequiresRestart {
		t.Fatalf("unexpected DatabaseCache definition %+v", def)
	}
	for _, id := range []OptionID{-1, OptionIDRowCount, 99} {
		if _, ok := Lookup(id); ok {
			t.Fatalf("expected lookup of %d to fail", id)
		}
	}
}

func TestParseOptionID(t *testing.T) {
	cases := []struct {
		input string
		want  OptionID
	}{
		{"DatabaseCache", DatabaseCache},
		{"databasecache", DatabaseCache},
		{"nDatabaseCache", DatabaseCache},
		{"-dbcache", DatabaseCache},
		{"dbcache", DatabaseCache},
		{"par", ThreadsScriptVerif},
		{"  theme ", Theme},
		{"fListen", Listen},
	}
	for _, tc := range cases {
		got, ok := ParseOptionID(tc.input)
		if !ok || got != tc.want {
			t.Fatalf("ParseOptionID(%q) = %s, %v; want %s", tc.input, got, ok, tc.want)
		}
	}
	if _, ok := ParseOptionID("nope"); ok {
		t.Fatalf("expected unknown name to fail")
	}
	if _, ok := ParseOptionID(""); ok {
		t.Fatalf("expected empty name to fail")
	}
}

func TestLookupKey(t *testing.T) {
	def, ok := LookupKey("addrProxyIP")
	if !ok || def.ID != ProxyIP {
		t.Fatalf("unexpected lookup result %+v, %v", def, ok)
	}
	if _, ok := LookupKey("AddrProxyIP"); ok {
		t.Fatalf("persistence keys are case sensitive")
	}
}

func TestOptionIDString(t *testing.T) {
	if MinerStartUp.String() != "MinerStartUp" {
		t.Fatalf("unexpected name %q", MinerStartUp.String())
	}
	if got := OptionID(42).String(); got != "OptionID(42)" {
		t.Fatalf("unexpected name for invalid id %q", got)
	}
}

func TestClampNormalizers(t *testing.T) {
	threads, _ := Lookup(ThreadsScriptVerif)
	if got := threads.Normalize(Int(-3)); got != Int(0) {
		t.Fatalf("negative thread count should clamp to auto (0), got %s", got)
	}
	if got := threads.Normalize(Int(64)); got != Int(MaxScriptCheckThreads) {
		t.Fatalf("thread count should clamp to %d, got %s", MaxScriptCheckThreads, got)
	}
	dbcache, _ := Lookup(DatabaseCache)
	if got := dbcache.Normalize(Int(1)); got != Int(MinDatabaseCache) {
		t.Fatalf("database cache should clamp to %d, got %s", MinDatabaseCache, got)
	}
	if got := dbcache.Normalize(Int(800)); got != Int(800) {
		t.Fatalf("in-range value should pass through, got %s", got)
	}
}
