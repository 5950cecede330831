package parse

// ReasonKind tells which node kind a reason mentions
type ReasonKind int

const (
	ReasonProposition ReasonKind = iota // [label], [label]: text or bare text
	ReasonArgument                      // <label> or <label>: text
)

// Reason is a single node mention. Label is empty for bare text.
type Reason struct {
	Kind  ReasonKind
	Label string
	Text  string
	Line  int
}

// MapNode is a reason with the marker that binds it to its parent.
// Roots carry NoMarker.
type MapNode struct {
	Reason   Reason
	Marker   RelationMarker
	Children []*MapNode
}

// MapTree is the forest of a map block
type MapTree struct {
	Roots []*MapNode
}

// Head is the optional first line of an argument block
type Head struct {
	Label string
	Text  string
	Line  int
}

// ItemKind discriminates argument body lines
type ItemKind int

const (
	ItemPremise ItemKind = iota
	ItemConclusion
	ItemReason
)

// Statement is a numbered PCS line. PropositionLabel is empty when the
// line has no [label].
type Statement struct {
	Seq              string
	PropositionLabel string
	Text             string
	Line             int
}

// BodyItem is one logical line of an argument body. Inference holds the
// raw annotation of a conclusion; it is empty for a bare rule.
type BodyItem struct {
	Kind      ItemKind
	Statement Statement
	Inference string
	Marker    RelationMarker
	Reason    Reason
}

// ArgumentTree is the parse of an argument block. Head is nil when the
// block starts directly with its first premise.
type ArgumentTree struct {
	Head *Head
	Body []BodyItem
}
