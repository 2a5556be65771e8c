package unified

import "testing"

func testProviders() map[string]ProviderDescriptor {
	return map[string]ProviderDescriptor{
		"a": {ID: "a", Name: "Alpha"},
		"b": {ID: "b", Name: "Beta"},
		"c": {ID: "c", Name: "Gamma"},
	}
}

func TestIntegrateSingleReplyVerbatim(t *testing.T) {
	got := Integrate([]Reply{{Provider: "a", Text: "x"}}, testProviders())
	if got != "x" {
		t.Fatalf("single reply = %q, want %q (no label)", got, "x")
	}
}

func TestIntegrateTwoReplies(t *testing.T) {
	got := Integrate([]Reply{
		{Provider: "a", Text: "x"},
		{Provider: "b", Text: "y"},
	}, testProviders())
	want := "[Alpha] x\n\n[Beta] y"
	if got != want {
		t.Fatalf("two replies = %q, want %q", got, want)
	}
}

func TestIntegrateManyReplies(t *testing.T) {
	got := Integrate([]Reply{
		{Provider: "a", Text: "x"},
		{Provider: "b", Text: "y"},
		{Provider: "c", Text: "z"},
	}, testProviders())
	want := "[Alpha] x\n\n[Beta] y\n\n[Gamma] z"
	if got != want {
		t.Fatalf("many replies = %q, want %q", got, want)
	}
}

func TestIntegrateUnknownProviderUsesID(t *testing.T) {
	got := Integrate([]Reply{
		{Provider: "mystery", Text: "x"},
		{Provider: "a", Text: "y"},
	}, testProviders())
	want := "[mystery] x\n\n[Alpha] y"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
