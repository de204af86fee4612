package scorm

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

const (
	nsIMSCP         = "http://www.imsproject.org/xsd/imscp_rootv1p1p2"
	nsADLCP         = "http://www.adlnet.org/xsd/adlcp_rootv1p2"
	nsXSI           = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocations = "http://www.imsproject.org/xsd/imscp_rootv1p1p2 imscp_rootv1p1p2.xsd " +
		"http://www.imsglobal.org/xsd/imsmd_rootv1p2p1 imsmd_rootv1p2p1.xsd " +
		"http://www.adlnet.org/xsd/adlcp_rootv1p2 adlcp_rootv1p2.xsd"
)

type manifestXML struct {
	XMLName        xml.Name         `xml:"manifest"`
	Identifier     string           `xml:"identifier,attr"`
	Version        string           `xml:"version,attr"`
	Xmlns          string           `xml:"xmlns,attr"`
	XmlnsADLCP     string           `xml:"xmlns:adlcp,attr"`
	XmlnsXSI       string           `xml:"xmlns:xsi,attr"`
	SchemaLocation string           `xml:"xsi:schemaLocation,attr"`
	Metadata       manifestMetadata `xml:"metadata"`
	Organizations  organizationsXML `xml:"organizations"`
	Resources      resourcesXML     `xml:"resources"`
}

type manifestMetadata struct {
	Schema        string `xml:"schema"`
	SchemaVersion string `xml:"schemaversion"`
}

type organizationsXML struct {
	Default       string            `xml:"default,attr"`
	Organizations []organizationXML `xml:"organization"`
}

type organizationXML struct {
	Identifier string    `xml:"identifier,attr"`
	Title      string    `xml:"title"`
	Items      []itemXML `xml:"item"`
}

type itemXML struct {
	Identifier    string `xml:"identifier,attr"`
	IdentifierRef string `xml:"identifierref,attr"`
	IsVisible     string `xml:"isvisible,attr"`
	Title         string `xml:"title"`
	MasteryScore  string `xml:"adlcp:masteryscore,omitempty"`
}

type resourcesXML struct {
	Resources []resourceXML `xml:"resource"`
}

type resourceXML struct {
	Identifier   string          `xml:"identifier,attr"`
	Type         string          `xml:"type,attr"`
	ScormType    string          `xml:"adlcp:scormtype,attr"`
	Href         string          `xml:"href,attr,omitempty"`
	Files        []fileXML       `xml:"file"`
	Dependencies []dependencyXML `xml:"dependency"`
}

type fileXML struct {
	Href string `xml:"href,attr"`
}

type dependencyXML struct {
	IdentifierRef string `xml:"identifierref,attr"`
}

const commonResourceID = "RES-common"

// renderManifest writes a SCORM 1.2 manifest with one item per page. Each
// item launches index.html at its page; shared files form one asset
// resource every page depends on.
func renderManifest(title string, pages []PagePlan, sharedFiles []string, passMark int) ([]byte, error) {
	m := manifestXML{
		Identifier:     "MANIFEST-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte("scormbuilder:"+title)).String(),
		Version:        "1.0",
		Xmlns:          nsIMSCP,
		XmlnsADLCP:     nsADLCP,
		XmlnsXSI:       nsXSI,
		SchemaLocation: schemaLocations,
		Metadata:       manifestMetadata{Schema: "ADL SCORM", SchemaVersion: "1.2"},
	}

	org := organizationXML{Identifier: "ORG-1", Title: title}
	for _, p := range pages {
		resID := fmt.Sprintf("RES-%d", p.Index)
		item := itemXML{
			Identifier:    fmt.Sprintf("ITEM-%d", p.Index),
			IdentifierRef: resID,
			IsVisible:     "true",
			Title:         p.Title,
		}
		if p.Kind == KindAssessment {
			item.MasteryScore = fmt.Sprintf("%d", passMark)
		}
		org.Items = append(org.Items, item)
		m.Resources.Resources = append(m.Resources.Resources, resourceXML{
			Identifier:   resID,
			Type:         "webcontent",
			ScormType:    "sco",
			Href:         FileIndex + "?page=" + url.QueryEscape(p.ID),
			Files:        []fileXML{{Href: p.File}},
			Dependencies: []dependencyXML{{IdentifierRef: commonResourceID}},
		})
	}
	m.Organizations = organizationsXML{Default: org.Identifier, Organizations: []organizationXML{org}}

	common := resourceXML{Identifier: commonResourceID, Type: "webcontent", ScormType: "asset"}
	for _, f := range sharedFiles {
		common.Files = append(common.Files, fileXML{Href: f})
	}
	m.Resources.Resources = append(m.Resources.Resources, common)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
