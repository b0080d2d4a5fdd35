package profile

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func declsFromYAML(t *testing.T, src string) *Declarations {
	t.Helper()
	var wrapper struct {
		Profiles Declarations `yaml:"profiles"`
	}
	if err := yaml.Unmarshal([]byte(src), &wrapper); err != nil {
		t.Fatalf("unmarshal declarations: %v", err)
	}
	return &wrapper.Profiles
}

const sampleDecls = `
profiles:
  dev:
    description: Development bundles
    profiles:
      api:
        description: Backend API work
      web:
        description: Frontend work
  docs:
    description: Documentation only
`

func TestDeclarationsOrder(t *testing.T) {
	decls := declsFromYAML(t, sampleDecls)

	if got := decls.Names(); !reflect.DeepEqual(got, []string{"dev", "docs"}) {
		t.Errorf("Names() = %v, want [dev docs]", got)
	}

	dev, ok := decls.Lookup("dev")
	if !ok {
		t.Fatal("expected dev profile")
	}
	if !dev.IsNested() {
		t.Error("dev should be nested")
	}
	if dev.Sub[0].Name != "api" || dev.Sub[1].Name != "web" {
		t.Errorf("sub-profile order = %v, want [api web]", dev.Sub)
	}
	if dev.Sub[0].Description != "Backend API work" {
		t.Errorf("sub description = %q", dev.Sub[0].Description)
	}
}

func TestRegistryMerge(t *testing.T) {
	t.Run("later_source_wins", func(t *testing.T) {
		reg := NewRegistry()
		reg.Merge(declsFromYAML(t, sampleDecls))
		reg.Merge(declsFromYAML(t, `
profiles:
  dev:
    description: Overridden
    profiles:
      cli:
        description: CLI work
`))

		def, _ := reg.Lookup("dev")
		if def.Description != "Overridden" {
			t.Errorf("description = %q, want overridden definition", def.Description)
		}
		if got := reg.SubProfiles("dev"); !reflect.DeepEqual(got, []string{"cli"}) {
			t.Errorf("SubProfiles(dev) = %v, want [cli]", got)
		}
		// docs from the first source survives untouched.
		if _, ok := reg.Lookup("docs"); !ok {
			t.Error("docs should still be registered")
		}
	})

	t.Run("nil_declarations_ignored", func(t *testing.T) {
		reg := NewRegistry()
		reg.Merge(nil)
		if len(reg.Names()) != 0 {
			t.Errorf("Names() = %v, want empty", reg.Names())
		}
	})
}

func TestRegistryExpand(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(declsFromYAML(t, sampleDecls))

	specs := func(raw ...string) []Specifier {
		out := make([]Specifier, len(raw))
		for i, r := range raw {
			out[i] = ParseSpecifier(r)
		}
		return out
	}

	t.Run("wildcard_equivalence", func(t *testing.T) {
		want := specs("dev:api", "dev:web")
		if got := reg.Expand([]string{"dev"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand([dev]) = %v, want %v", got, want)
		}
		if got := reg.Expand([]string{"dev:*"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand([dev:*]) = %v, want %v", got, want)
		}
		if got := reg.Expand([]string{"dev:api", "dev:web"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand([dev:api dev:web]) = %v, want %v", got, want)
		}
	})

	t.Run("flat_and_qualified_pass_through", func(t *testing.T) {
		want := specs("docs", "dev:api")
		if got := reg.Expand([]string{"docs", "dev:api"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand = %v, want %v", got, want)
		}
	})

	t.Run("unknown_names_pass_through", func(t *testing.T) {
		want := specs("mystery", "mystery:*")
		if got := reg.Expand([]string{"mystery", "mystery:*"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand = %v, want %v", got, want)
		}
	})

	t.Run("ordering_preserved_and_contiguous", func(t *testing.T) {
		want := specs("docs", "dev:api", "dev:web", "extra")
		if got := reg.Expand([]string{"docs", "dev", "extra"}); !reflect.DeepEqual(got, want) {
			t.Errorf("Expand = %v, want %v", got, want)
		}
	})
}

func TestParseSpecifier(t *testing.T) {
	cases := []struct {
		raw       string
		parent    string
		sub       string
		qualified bool
		wildcard  bool
	}{
		{"dev", "dev", "", false, false},
		{"dev:api", "dev", "api", true, false},
		{"dev:*", "dev", "*", false, true},
		{"a:b:c", "a", "b:c", true, false},
	}

	for _, tc := range cases {
		spec := ParseSpecifier(tc.raw)
		if spec.Parent != tc.parent || spec.Sub != tc.sub {
			t.Errorf("ParseSpecifier(%q) = %+v", tc.raw, spec)
		}
		if spec.IsQualified() != tc.qualified {
			t.Errorf("IsQualified(%q) = %v", tc.raw, spec.IsQualified())
		}
		if spec.IsWildcard() != tc.wildcard {
			t.Errorf("IsWildcard(%q) = %v", tc.raw, spec.IsWildcard())
		}
		if spec.String() != tc.raw {
			t.Errorf("String() = %q, want %q", spec.String(), tc.raw)
		}
	}
}
