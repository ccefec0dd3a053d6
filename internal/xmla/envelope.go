package xmla

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// XMLA request templates. Restrictions and properties are injected as
// XML-escaped text; the envelopes themselves are fixed.
const (
	discoverTemplate = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <Discover xmlns="urn:schemas-microsoft-com:xml-analysis">
      <RequestType>%s</RequestType>
      <Restrictions>
        <RestrictionList>
          <CATALOG_NAME>%s</CATALOG_NAME>
        </RestrictionList>
      </Restrictions>
      <Properties>
        <PropertyList>
          <Format>Tabular</Format>
        </PropertyList>
      </Properties>
    </Discover>
  </soap:Body>
</soap:Envelope>`

	executeTemplate = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <Execute xmlns="urn:schemas-microsoft-com:xml-analysis">
      <Command>
        <Statement>%s</Statement>
      </Command>
      <Properties>
        <PropertyList>
          <Catalog>%s</Catalog>
        </PropertyList>
      </Properties>
    </Execute>
  </soap:Body>
</soap:Envelope>`
)

// discoverRequest renders a Discover envelope for one catalog.
func discoverRequest(requestType, catalog string) string {
	return fmt.Sprintf(discoverTemplate, escapeXML(requestType), escapeXML(catalog))
}

// executeRequest renders an Execute envelope carrying a command statement.
func executeRequest(statement, catalog string) string {
	return fmt.Sprintf(executeTemplate, escapeXML(statement), escapeXML(catalog))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	// EscapeText only fails on a failing writer; bytes.Buffer never does.
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// node is a generic XML tree node. Column sets differ per Discover request
// type, so responses are decoded generically and cells are read by name.
type node struct {
	XMLName xml.Name
	Content string `xml:",chardata"`
	Nodes   []node `xml:",any"`
}

// find returns the first descendant element with the given local name,
// searching depth-first, or nil.
func (n *node) find(local string) *node {
	for i := range n.Nodes {
		child := &n.Nodes[i]
		if child.XMLName.Local == local {
			return child
		}
		if found := child.find(local); found != nil {
			return found
		}
	}
	return nil
}

// row is one rowset row: a bag of named string cells.
type row struct {
	cells map[string]string
}

// cell returns the named column value, or "" when the row lacks it.
func (r row) cell(name string) string {
	return r.cells[name]
}

// soapFault carries the error detail of a SOAP fault response.
type soapFault struct {
	Code   string
	Reason string
}

func (f *soapFault) Error() string {
	if f.Reason == "" {
		return fmt.Sprintf("xmla fault %s", f.Code)
	}
	return fmt.Sprintf("xmla fault %s: %s", f.Code, f.Reason)
}

// parseDiscoverResponse walks a Discover SOAP response and extracts the
// rowset rows. A SOAP fault in the body is returned as *soapFault.
func parseDiscoverResponse(body []byte) ([]row, error) {
	var envelope node
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("malformed xmla response: %w", err)
	}

	if fault := envelope.find("Fault"); fault != nil {
		f := &soapFault{}
		if c := fault.find("faultcode"); c != nil {
			f.Code = c.Content
		}
		if r := fault.find("faultstring"); r != nil {
			f.Reason = r.Content
		}
		return nil, f
	}

	var rows []row
	collectRows(&envelope, &rows)
	return rows, nil
}

// collectRows gathers every <row> element in the response tree.
func collectRows(n *node, out *[]row) {
	if n.XMLName.Local == "row" {
		r := row{cells: make(map[string]string, len(n.Nodes))}
		for _, cell := range n.Nodes {
			r.cells[cell.XMLName.Local] = cell.Content
		}
		*out = append(*out, r)
		return
	}
	for i := range n.Nodes {
		collectRows(&n.Nodes[i], out)
	}
}

// parseExecuteResponse checks an Execute SOAP response for a fault.
func parseExecuteResponse(body []byte) error {
	_, err := parseDiscoverResponse(body)
	return err
}
