package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Smith v. Jones, Inc.", "smith v jones inc"},
		{"O'Brien v. Int'l Paper Co.", "obrien v intl paper co"},
		{"  State  of   Washington ", "state of washington"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSignificantTokens_DropsStopWords(t *testing.T) {
	tokens := SignificantTokens("Smith v. Jones, Inc.")
	want := []string{"smith", "jones"}
	if len(tokens) != len(want) {
		t.Fatalf("got %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestWordOverlap(t *testing.T) {
	tests := []struct {
		name      string
		extracted string
		candidate string
		min, max  float64
	}{
		{"identical", "Smith v. Jones", "Smith v. Jones", 1, 1},
		{"full containment", "Smith v. Jones", "Smith v. Jones Manufacturing", 1, 1},
		{"half", "Smith v. Jones", "Smith v. Baker", 0.49, 0.51},
		{"disjoint", "Smith v. Jones", "Roe v. Wade", 0, 0},
		{"empty extracted never matches", "", "Smith v. Jones", 0, 0},
		{"stop words only never match", "In re the", "In re Ballard", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WordOverlap(tt.extracted, tt.candidate)
			if got < tt.min || got > tt.max {
				t.Errorf("WordOverlap(%q, %q) = %v, want in [%v, %v]",
					tt.extracted, tt.candidate, got, tt.min, tt.max)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("Smith v. Jones", "Smith v. Jones"); got != 1 {
		t.Errorf("identical names: got %v, want 1", got)
	}
	if got := Similarity("Smith v. Jones", "Smith v. Jonas"); got < 0.85 {
		t.Errorf("near-identical names: got %v, want >= 0.85", got)
	}
	if got := Similarity("Smith v. Jones", "Roe v. Wade"); got > 0.6 {
		t.Errorf("unrelated names: got %v, want <= 0.6", got)
	}
	if got := Similarity("", "Smith v. Jones"); got != 0 {
		t.Errorf("empty name: got %v, want 0", got)
	}
}

func TestSplitParties(t *testing.T) {
	p, d, ok := SplitParties("Smith v. Jones, Inc.")
	if !ok || p != "smith" || d != "jones inc" {
		t.Errorf("got (%q, %q, %v)", p, d, ok)
	}

	if _, _, ok := SplitParties("In re Ballard Estate"); ok {
		t.Error("expected no split for single-party caption")
	}
}

func TestGovernmentParty(t *testing.T) {
	tests := []struct {
		caption string
		isGov   bool
		private string
	}{
		{"State v. Randle", true, "randle"},
		{"State of Washington v. Randle", true, "randle"},
		{"People v. Sanchez", true, "sanchez"},
		{"United States v. Nixon", true, "nixon"},
		{"City of Seattle v. Long", true, "long"},
		{"State Farm v. Campbell", false, ""},
		{"Smith v. Jones", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if got := IsGovernmentCase(tt.caption); got != tt.isGov {
				t.Fatalf("IsGovernmentCase(%q) = %v, want %v", tt.caption, got, tt.isGov)
			}
			if tt.isGov {
				party, ok := NonGovernmentParty(tt.caption)
				if !ok || party != tt.private {
					t.Errorf("NonGovernmentParty(%q) = (%q, %v), want %q", tt.caption, party, ok, tt.private)
				}
			}
		})
	}
}
