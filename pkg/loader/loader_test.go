package loader

import (
	"testing"
)

func TestParseBatchCSV(t *testing.T) {
	content := []byte("\xef\xbb\xbfURL,SchemaType,name,telephone\n" +
		"https://example.com/,,,\n" +
		"https://example.com/services/seo/,Service,SEO Consulting,404-555-1234\n" +
		"\n" +
		",,orphan,\n" +
		"https://example.com/about/,,,\n")

	records, err := ParseBatchCSV(content)
	if err != nil {
		t.Fatalf("ParseBatchCSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	if records[0].URL != "https://example.com/" || records[0].OverrideType != "" {
		t.Errorf("row 0 = %+v", records[0])
	}

	svc := records[1]
	if svc.OverrideType != "Service" {
		t.Errorf("OverrideType = %q", svc.OverrideType)
	}
	if svc.OverrideFields["name"] != "SEO Consulting" {
		t.Errorf("name override = %q", svc.OverrideFields["name"])
	}
	if svc.OverrideFields["telephone"] != "404-555-1234" {
		t.Errorf("telephone override = %q", svc.OverrideFields["telephone"])
	}

	if records[2].OverrideFields != nil {
		t.Errorf("row 2 overrides = %v, want none", records[2].OverrideFields)
	}
}

func TestParseBatchCSVLowercaseHeader(t *testing.T) {
	records, err := ParseBatchCSV([]byte("url,schematype\nhttps://example.com/team/jane/,Person\n"))
	if err != nil {
		t.Fatalf("ParseBatchCSV: %v", err)
	}
	if records[0].OverrideType != "Person" {
		t.Errorf("OverrideType = %q", records[0].OverrideType)
	}
}

func TestParseBatchCSVErrors(t *testing.T) {
	if _, err := ParseBatchCSV(nil); err == nil {
		t.Error("empty file accepted")
	}
	if _, err := ParseBatchCSV([]byte("name,telephone\nAcme,555\n")); err == nil {
		t.Error("missing URL column accepted")
	}
	if _, err := ParseBatchCSV([]byte("URL\n\n")); err == nil {
		t.Error("file with no URL rows accepted")
	}
}

func TestExtractSignals(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>Acme SEO Services</title>
<meta name="description" content="Search engine optimization in Atlanta.">
<meta property="og:image" content="https://example.com/img/og.png">
<meta property="og:site_name" content="Acme Digital">
<link rel="icon" href="/favicon.ico">
<script type="application/ld+json">{"@type": "Organization", "name": "Acme"}</script>
<script type="application/ld+json">not json</script>
</head><body>
<h1>SEO Services</h1>
<main><p>We improve search rankings for local businesses across Georgia.</p></main>
<a href="tel:404-555-1234">Call us</a>
<a href="tel:404-555-1234">Call again</a>
<a href="mailto:info@example.com?subject=hi">Email</a>
<a href="https://www.facebook.com/acme">Facebook</a>
<a href="/services/ppc/">PPC</a>
<a href="https://example.com/about/">About</a>
</body></html>`

	data := &PageData{URL: "https://example.com/services/seo/"}
	ExtractSignals(data, []byte(page))

	if data.Err != nil {
		t.Fatalf("Err = %v", data.Err)
	}
	if data.Title != "Acme SEO Services" {
		t.Errorf("Title = %q", data.Title)
	}
	if data.H1 != "SEO Services" {
		t.Errorf("H1 = %q", data.H1)
	}
	if data.MetaDescription != "Search engine optimization in Atlanta." {
		t.Errorf("MetaDescription = %q", data.MetaDescription)
	}
	if data.OGImage != "https://example.com/img/og.png" || data.OGSiteName != "Acme Digital" {
		t.Errorf("og tags = %q %q", data.OGImage, data.OGSiteName)
	}
	if data.LogoURL != "https://example.com/favicon.ico" {
		t.Errorf("LogoURL = %q", data.LogoURL)
	}
	if len(data.PhoneNumbers) != 1 || data.PhoneNumbers[0] != "404-555-1234" {
		t.Errorf("PhoneNumbers = %v", data.PhoneNumbers)
	}
	if len(data.EmailAddresses) != 1 || data.EmailAddresses[0] != "info@example.com" {
		t.Errorf("EmailAddresses = %v", data.EmailAddresses)
	}
	if len(data.SocialLinks) != 1 || data.SocialLinks[0] != "https://www.facebook.com/acme" {
		t.Errorf("SocialLinks = %v", data.SocialLinks)
	}
	if len(data.ExistingJSONLD) != 1 {
		t.Errorf("ExistingJSONLD = %d blocks", len(data.ExistingJSONLD))
	}

	wantLinks := map[string]bool{
		"https://example.com/services/ppc/": false,
		"https://example.com/about/":        false,
	}
	for _, link := range data.InternalLinks {
		if _, ok := wantLinks[link]; ok {
			wantLinks[link] = true
		}
	}
	for link, seen := range wantLinks {
		if !seen {
			t.Errorf("internal link %q not collected", link)
		}
	}
}

func TestAppendUnique(t *testing.T) {
	list := appendUnique(nil, "a")
	list = appendUnique(list, "a")
	list = appendUnique(list, "")
	list = appendUnique(list, "b")
	if len(list) != 2 {
		t.Errorf("list = %v", list)
	}
}
