package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/beevik/etree"

	"github.com/leapstack-labs/leapedi/pkg/edi"
	"github.com/leapstack-labs/leapedi/pkg/edixml"
	"github.com/leapstack-labs/leapedi/pkg/format"
	"github.com/leapstack-labs/leapedi/pkg/parser"
)

// InspectResponse is the JSON summary returned by POST /v1/inspect.
type InspectResponse struct {
	Segments        int                  `json:"segments"`
	ControlNumber   string               `json:"control_number,omitempty"`
	Delimiters      map[string]string    `json:"delimiters"`
	TransactionSets []TransactionSummary `json:"transaction_sets"`
}

// TransactionSummary describes one ST..SE run.
type TransactionSummary struct {
	ID            string `json:"id"`
	ControlNumber string `json:"control_number"`
	Segments      int    `json:"segments"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleToXML parses an EDI body and responds with its XML form. The indent
// query parameter selects pretty printing.
func (s *Server) handleToXML(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := parser.Parse(body, s.delims)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	xdoc := edixml.FromDocument(doc)
	if r.URL.Query().Get("indent") != "" {
		xdoc.Indent(2)
	}
	out, err := xdoc.WriteToString()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = io.WriteString(w, out)
}

// handleFromXML maps an XML body back to delimited EDI text.
func (s *Server) handleFromXML(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	xdoc := etree.NewDocument()
	if err := xdoc.ReadFromString(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	doc := edixml.ToDocument(xdoc)
	doc.Options = doc.Options.Merge(s.delims.Merge(edi.DefaultOptions()))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, format.Format(doc))
}

// handleInspect parses an EDI body and responds with a structural summary.
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := parser.Parse(body, s.delims)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	resp := InspectResponse{
		Segments:      len(doc.Segments),
		ControlNumber: doc.ControlNumber(),
		Delimiters: map[string]string{
			"segment_terminator":   doc.Options.SegmentTerminator.String(),
			"element_separator":    doc.Options.ElementSeparator.String(),
			"component_separator":  doc.Options.ComponentSeparator.String(),
			"repetition_separator": doc.Options.RepetitionSeparator.String(),
		},
		TransactionSets: []TransactionSummary{},
	}
	for _, ts := range doc.TransactionSets() {
		resp.TransactionSets = append(resp.TransactionSets, TransactionSummary{
			ID:            ts.ID(),
			ControlNumber: ts.ControlNumber(),
			Segments:      len(ts.Segments),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return "", false
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty request body"})
		return "", false
	}
	return string(data), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
