package reporters

import "testing"

func TestIdentify(t *testing.T) {
	tests := []struct {
		citation string
		abbrev   string
		class    Class
	}{
		{"100 Wn.2d 1", "Wn.2d", ClassState},
		{"100 Wash.2d 1", "Wash.2d", ClassState},
		{"200 P.2d 2", "P.2d", ClassRegional},
		{"345 P.3d 100", "P.3d", ClassRegional},
		{"100 F.3d 1", "F.3d", ClassFederal},
		{"410 U.S. 113", "U.S.", ClassFederal},
		{"93 S. Ct. 705", "S. Ct.", ClassFederal},
		{"120 F. Supp. 2d 50", "F. Supp.2d", ClassFederal},
		{"50 Cal. App. 4th 100", "Cal. App.4th", ClassState},
		{"75 N.E.2d 200", "N.E.2d", ClassRegional},
		{"12 Wn. App. 2d 33", "Wn. App.2d", ClassState},
	}

	for _, tt := range tests {
		t.Run(tt.citation, func(t *testing.T) {
			r, ok := Identify(tt.citation)
			if !ok {
				t.Fatalf("Identify(%q): not found", tt.citation)
			}
			if r.Abbrev != tt.abbrev {
				t.Errorf("abbrev = %q, want %q", r.Abbrev, tt.abbrev)
			}
			if r.Class != tt.class {
				t.Errorf("class = %v, want %v", r.Class, tt.class)
			}
		})
	}
}

func TestIdentify_Unknown(t *testing.T) {
	for _, citation := range []string{"no citation here", "100 Zz.9q 1", ""} {
		if _, ok := Identify(citation); ok {
			t.Errorf("Identify(%q): expected not found", citation)
		}
	}
}

func TestJurisdictionCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Washington Supreme Court", "wa"},
		{"Supreme Court of California", "ca"},
		{"wash", "wa"},
		{"washctapp", "wa"},
		{"W.D. Washington", "federal"},
		{"United States Court of Appeals for the Ninth Circuit", "federal"},
		{"scotus", "federal"},
		{"", ""},
		{"something unrecognizable", ""},
	}

	for _, tt := range tests {
		if got := JurisdictionCode(tt.in); got != tt.want {
			t.Errorf("JurisdictionCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	wn, _ := Identify("100 Wn.2d 1")
	if !wn.Covers("Washington Supreme Court") {
		t.Error("Wn.2d should cover a Washington court")
	}
	if wn.Covers("Supreme Court of California") {
		t.Error("Wn.2d must not cover California")
	}
	if !wn.Covers("") {
		t.Error("undeterminable jurisdiction must not be rejected")
	}

	pac, _ := Identify("200 P.2d 2")
	if !pac.Covers("Supreme Court of California") || !pac.Covers("Washington Supreme Court") {
		t.Error("P.2d covers both California and Washington")
	}
	if pac.Covers("New York Court of Appeals") {
		t.Error("P.2d must not cover New York")
	}

	fed, _ := Identify("100 F.3d 1")
	if !fed.Covers("United States Court of Appeals for the Second Circuit") {
		t.Error("F.3d covers federal appellate courts")
	}
	if fed.Covers("Washington Supreme Court") {
		t.Error("F.3d must not cover a state court")
	}
}
