// Package edixml maps the document model to and from XML trees.
//
// Tag names carry the structure: a segment node's tag is the segment
// identifier, and every field inside it is the segment tag plus a
// two-digit 1-based position suffix, so <REF02> addresses the second
// element of a REF segment. Component tags extend the element tag the same
// way (<HI0102>). Nodes whose tag ends in "Loop" group segments without
// contributing one themselves, letting hierarchical claim or order trees
// flatten into the document's segment sequence. Leaf text passes through
// the value codec, honoring an optional type attribute (see EncodeValue).
//
// # Usage
//
//	xdoc := etree.NewDocument()
//	if err := xdoc.ReadFromString(payload); err != nil {
//	    // handle error
//	}
//	doc := edixml.ToDocument(xdoc)
package edixml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/leapstack-labs/leapedi/pkg/edi"
)

// loopSuffix marks grouping nodes that nest segments without being one.
const loopSuffix = "loop"

// rootTag names the document element FromDocument emits.
const rootTag = "Interchange"

// ToDocument walks an XML tree into a Document. The walk is permissive:
// nodes whose tag lacks a valid two-digit position suffix are skipped, and
// slots are grown with absent entries to reach addressed positions.
// Repeated occurrences of the same field tag accumulate as repetitions.
func ToDocument(xdoc *etree.Document) *edi.Document {
	doc := edi.NewDocument()
	if xdoc == nil {
		return doc
	}
	if root := xdoc.Root(); root != nil {
		appendLoop(doc, root)
	}
	return doc
}

// appendLoop flattens one grouping node: loop children recurse, everything
// else maps to a segment.
func appendLoop(doc *edi.Document, node *etree.Element) {
	for _, child := range node.ChildElements() {
		if isLoop(child.Tag) {
			appendLoop(doc, child)
			continue
		}
		doc.Append(toSegment(child))
	}
}

func isLoop(tag string) bool {
	return strings.HasSuffix(strings.ToLower(tag), loopSuffix)
}

func toSegment(node *etree.Element) *edi.Segment {
	seg := &edi.Segment{ID: strings.ToUpper(node.Tag)}
	for _, child := range node.ChildElements() {
		pos, ok := elementIndex(child.Tag)
		if !ok {
			continue
		}
		elem := seg.Element(pos)
		if elem == nil {
			elem = &edi.Element{}
			seg.SetElement(pos, elem)
		}
		elem.Append(toRepetition(child))
	}
	return seg
}

// toRepetition reads one field node: children decompose into components by
// position suffix, a childless node is a scalar leaf.
func toRepetition(node *etree.Element) *edi.Repetition {
	children := node.ChildElements()
	if len(children) == 0 {
		return &edi.Repetition{Value: LoadValue(node)}
	}
	rep := &edi.Repetition{}
	for _, c := range children {
		pos, ok := elementIndex(c.Tag)
		if !ok {
			continue
		}
		rep.SetComponent(pos, LoadValue(c))
	}
	return rep
}

// elementIndex extracts the 1-based position suffix from a tag, returning
// the 0-based slot. Tags that are too short, end in something non-numeric
// or address position zero are skipped.
func elementIndex(tag string) (int, bool) {
	if len(tag) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(tag[len(tag)-2:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n - 1, true
}

// LoadValue reads a leaf node's text through the value codec, honoring the
// optional type attribute.
func LoadValue(node *etree.Element) string {
	return EncodeValue(node.Text(), node.SelectAttrValue("type", ""))
}

// FromDocument builds an XML tree for doc under a single Interchange root.
// Absent element and component slots emit no node; repetitions of one
// element emit one node each, in order. Leaf text is the stored value,
// written without a type attribute.
func FromDocument(doc *edi.Document) *etree.Document {
	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := xdoc.CreateElement(rootTag)
	for _, seg := range doc.Segments {
		segNode := root.CreateElement(seg.ID)
		for i, elem := range seg.Elements {
			if elem == nil {
				continue
			}
			tag := fmt.Sprintf("%s%02d", seg.ID, i+1)
			for _, rep := range elem.Repetitions {
				writeRepetition(segNode, tag, rep)
			}
		}
	}
	return xdoc
}

func writeRepetition(segNode *etree.Element, tag string, rep *edi.Repetition) {
	if rep == nil {
		return
	}
	node := segNode.CreateElement(tag)
	if !rep.IsComposite() {
		node.SetText(rep.Value)
		return
	}
	for i, c := range rep.Components {
		if c == nil {
			continue
		}
		child := node.CreateElement(fmt.Sprintf("%s%02d", tag, i+1))
		child.SetText(c.Value)
	}
}
