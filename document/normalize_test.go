package document

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		description string
		doc         *Document
		expectedDoc *Document
	}{
		{description: "stray runs in a quote share one paragraph",
			doc:         doc(&Quote{Children: []Node{NewInline("a"), NewInline("b", Bold)}}),
			expectedDoc: doc(&Quote{Children: []Node{NewParagraph(NewInline("a"), NewInline("b", Bold))}})},

		{description: "nested quote is flattened",
			doc:         doc(&Quote{Children: []Node{para("a"), quote("b", "c")}}),
			expectedDoc: doc(quote("a", "b", "c"))},

		{description: "adjacent quotes merge",
			doc:         doc(para("x"), quote("a"), quote("b"), quote("c"), para("y")),
			expectedDoc: doc(para("x"), quote("a", "b", "c"), para("y"))},

		{description: "stray root run is wrapped",
			doc:         doc(NewInline("a"), para("b")),
			expectedDoc: doc(para("a"), para("b"))},

		{description: "empty quote is dropped",
			doc:         doc(para("a"), &Quote{}),
			expectedDoc: doc(para("a"))},

		{description: "empty document gets the default paragraph",
			doc:         &Document{},
			expectedDoc: doc(para(""))},

		{description: "paragraph without runs gets one",
			doc:         doc(&Paragraph{}),
			expectedDoc: doc(para(""))},

		{description: "same-mark runs merge, empty runs go",
			doc:         doc(NewParagraph(NewInline("a"), NewInline(""), NewInline("b"), NewInline("c", Code))),
			expectedDoc: doc(NewParagraph(NewInline("ab"), NewInline("c", Code)))},

		{description: "quotes separated by a dropped empty quote merge on the next pass",
			doc:         doc(quote("a"), &Quote{}, quote("b")),
			expectedDoc: doc(quote("a", "b"))},
	}

	for _, tc := range tests {
		Normalize(tc.doc)
		checkDoc(t, tc.description, tc.doc, tc.expectedDoc)

		// A normalized document is a fixed point.
		if passes := Normalize(tc.doc); passes != 0 {
			t.Errorf("(%s) second normalize made %d passes", tc.description, passes)
		}
	}
}

func TestNormalize_Settled(t *testing.T) {
	d := doc(para("a"), quote("b"))

	if passes := Normalize(d); passes != 0 {
		t.Errorf("normalized document took %d passes", passes)
	}
}
