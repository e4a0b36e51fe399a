package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapedi/internal/testutil"
	"github.com/leapstack-labs/leapedi/pkg/edi"
)

const sampleInterchange = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       " +
	"*240305*1200*^*00501*000000001*0*P*:~" +
	"GS*HC*SENDER*RECEIVER*20240305*1200*1*X*005010~" +
	"ST*837*0001~" +
	"SE*2*0001~" +
	"GE*1*1~" +
	"IEA*1*000000001~"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(Config{Logger: testutil.NewTestLogger(t)})
	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestToXML(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/to-xml", "text/plain", strings.NewReader(sampleInterchange))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "<Interchange>")
	assert.Contains(t, string(body), "<ST01>837</ST01>")
}

func TestToXML_ParseFailure(t *testing.T) {
	srv := newTestServer(t)

	// No non-alphanumeric character: element separator inference must fail.
	resp, err := http.Post(srv.URL+"/v1/to-xml", "text/plain", strings.NewReader("ABC123"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.Contains(t, e.Error, "element separator")
}

func TestFromXML(t *testing.T) {
	srv := newTestServer(t)
	payload := `<Interchange><ST><ST01>837</ST01><ST02>0001</ST02></ST><SE><SE01>2</SE01><SE02>0001</SE02></SE></Interchange>`

	resp, err := http.Post(srv.URL+"/v1/from-xml", "application/xml", strings.NewReader(payload))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ST*837*0001~SE*2*0001~", string(body))
}

func TestFromXML_Malformed(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/from-xml", "application/xml", strings.NewReader("<unclosed"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInspect(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/inspect", "text/plain", strings.NewReader(sampleInterchange))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got InspectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, 6, got.Segments)
	assert.Equal(t, "000000001", got.ControlNumber)
	assert.Equal(t, "~", got.Delimiters["segment_terminator"])
	assert.Equal(t, "*", got.Delimiters["element_separator"])
	require.Len(t, got.TransactionSets, 1)
	assert.Equal(t, "837", got.TransactionSets[0].ID)
	assert.Equal(t, 2, got.TransactionSets[0].Segments)
}

func TestEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/v1/inspect", "text/plain", strings.NewReader(""))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDelimiterOverrides(t *testing.T) {
	s := NewServer(Config{
		Delims: edi.Options{SegmentTerminator: edi.NewDelim('\n')},
		Logger: testutil.NewTestLogger(t),
	})
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/inspect", "text/plain",
		strings.NewReader("ST*837*0001\nSE*2*0001\n"))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got InspectResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 2, got.Segments)
}
