package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agentpack/agentpack/internal/frontmatter"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	return path
}

func targets(raw ...string) []Specifier {
	out := make([]Specifier, len(raw))
	for i, r := range raw {
		out[i] = ParseSpecifier(r)
	}
	return out
}

func TestMatchesGlobalScope(t *testing.T) {
	cases := []struct {
		declared string
		target   string
		want     bool
	}{
		{"dev", "dev", true},
		{"dev", "dev:api", true}, // parent declaration covers the family
		{"dev:api", "dev:api", true},
		{"dev:api", "dev:web", false},
		{"dev:api", "dev", false},
		{"ops", "dev", false},
	}
	for _, tc := range cases {
		got := Matches(tc.declared, ParseSpecifier(tc.target), ScopeGlobal)
		if got != tc.want {
			t.Errorf("Matches(%q, %q, global) = %v, want %v", tc.declared, tc.target, got, tc.want)
		}
	}
}

func TestMatchesParentScope(t *testing.T) {
	scope := Scope("dev")
	cases := []struct {
		declared string
		target   string
		want     bool
	}{
		{"api", "dev:api", true},
		{"api", "dev:web", false},
		{"dev:api", "dev:api", false}, // fully-qualified never matches in scope
		{"api", "ops:api", false},     // target outside the scope
		{"api", "dev", false},         // flat target cannot match in scope
	}
	for _, tc := range cases {
		got := Matches(tc.declared, ParseSpecifier(tc.target), scope)
		if got != tc.want {
			t.Errorf("Matches(%q, %q, dev) = %v, want %v", tc.declared, tc.target, got, tc.want)
		}
	}
}

func TestInclude(t *testing.T) {
	t.Run("no_metadata_includes", func(t *testing.T) {
		path := writeDoc(t, "# plain document\n")
		if !Include(path, targets("dev"), ScopeGlobal) {
			t.Error("document without metadata must be included")
		}
	})

	t.Run("unreadable_includes", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.md")
		if !Include(missing, targets("dev"), ScopeGlobal) {
			t.Error("unreadable document must be treated as unrestricted")
		}
	})

	t.Run("declared_profile_intersects_targets", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [dev]\n---\n")
		if !Include(path, targets("dev:api"), ScopeGlobal) {
			t.Error("parent declaration should cover dev:api")
		}
		if Include(path, targets("ops"), ScopeGlobal) {
			t.Error("non-intersecting target must exclude")
		}
	})

	t.Run("no_declared_key_includes_unless_excluded", func(t *testing.T) {
		path := writeDoc(t, "---\ndescription: something\n---\n")
		if !Include(path, targets("dev"), ScopeGlobal) {
			t.Error("metadata without a profiles key must include")
		}
	})

	t.Run("exclusion_takes_precedence", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [dev]\nexclude-from-profiles: [dev]\n---\n")
		if Include(path, targets("dev"), ScopeGlobal) {
			t.Error("exclusion must win over a positive declaration")
		}
	})

	t.Run("empty_declared_list_matches_nothing", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles:\n---\n")
		if Include(path, targets("dev"), ScopeGlobal) {
			t.Error("an explicitly empty profiles list must exclude")
		}
	})

	t.Run("legacy_keys_honored", func(t *testing.T) {
		path := writeDoc(t, "---\nuse-cases: [dev]\n---\n")
		if !Include(path, targets("dev"), ScopeGlobal) {
			t.Error("legacy use-cases key must behave as profiles")
		}

		excluded := writeDoc(t, "---\nexclude-from-use-cases: [dev]\n---\n")
		if Include(excluded, targets("dev"), ScopeGlobal) {
			t.Error("legacy exclude key must behave as exclude-from-profiles")
		}
	})

	t.Run("canonical_key_shadows_legacy", func(t *testing.T) {
		fields := frontmatter.ParseBytes([]byte("---\nprofiles: [ops]\nuse-cases: [dev]\n---\n"))
		if IncludeFields(fields, targets("dev"), ScopeGlobal) {
			t.Error("canonical profiles key must shadow the legacy alias")
		}
	})

	t.Run("scoped_bare_sub_name", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [api]\n---\n")
		if !Include(path, targets("dev:api"), Scope("dev")) {
			t.Error("bare sub-name must match inside its parent scope")
		}
		if Include(path, targets("dev:web"), Scope("dev")) {
			t.Error("sibling sub-profile must not match")
		}
	})

	t.Run("scoped_qualified_spec_never_matches", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [\"dev:api\"]\n---\n")
		if Include(path, targets("dev:api"), Scope("dev")) {
			t.Error("fully-qualified spec inside a scoped area must not match")
		}
	})
}

func TestValidateDoc(t *testing.T) {
	subs := []string{"api", "web"}

	t.Run("bare_known_sub_is_valid", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [api]\n---\n")
		result := ValidateDoc(path, Scope("dev"), subs)
		if !result.Valid || len(result.Warnings) != 0 {
			t.Errorf("result = %+v, want valid", result)
		}
	})

	t.Run("qualified_spec_warns", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [\"dev:api\"]\n---\n")
		result := ValidateDoc(path, Scope("dev"), subs)
		if result.Valid || len(result.Warnings) != 1 {
			t.Errorf("result = %+v, want one warning", result)
		}
	})

	t.Run("unknown_sub_warns", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [mobile]\n---\n")
		result := ValidateDoc(path, Scope("dev"), subs)
		if result.Valid || len(result.Warnings) != 1 {
			t.Errorf("result = %+v, want one warning", result)
		}
	})

	t.Run("global_scope_is_always_valid", func(t *testing.T) {
		path := writeDoc(t, "---\nprofiles: [\"dev:api\"]\n---\n")
		result := ValidateDoc(path, ScopeGlobal, nil)
		if !result.Valid {
			t.Errorf("result = %+v, want valid", result)
		}
	})

	t.Run("exclusions_checked_too", func(t *testing.T) {
		path := writeDoc(t, "---\nexclude-from-profiles: [mobile]\n---\n")
		result := ValidateDoc(path, Scope("dev"), subs)
		if result.Valid || len(result.Warnings) != 1 {
			t.Errorf("result = %+v, want one warning", result)
		}
	})
}
