package knowledge

// Templates holds the JSON-LD skeleton per page type. Placeholders use the
// {{name}} form and are filled (or dropped) by the fragment generator; the
// templates are shipped to the model verbatim as part of the prompt.
var Templates = map[string]string{
	"Organization": `{
  "@context": "https://schema.org",
  "@type": "Organization",
  "@id": "{{domain}}/#Organization",
  "name": "{{business_name}}",
  "legalName": "{{legal_name}}",
  "description": "{{description_150_300_chars}}",
  "disambiguatingDescription": "{{extended_description}}",
  "url": "{{domain}}/",
  "logo": "{{logo_url}}",
  "image": "{{image_url}}",
  "telephone": "+1{{phone_no_formatting}}",
  "email": "{{email}}",
  "foundingDate": "{{YYYY-MM-DD}}",
  "foundingLocation": { "@id": "{{wikidata_city_uri}}" },
  "numberOfEmployees": "{{number}}",
  "address": {
    "@type": "PostalAddress",
    "@id": "{{domain}}/#PostalAddress",
    "name": "{{business_name}} - Address",
    "streetAddress": "{{street}}",
    "addressLocality": "{{city}}",
    "addressRegion": "{{state_abbrev}}",
    "postalCode": "{{zip}}",
    "addressCountry": {
      "@type": "Country",
      "name": "United States",
      "@id": "http://www.wikidata.org/entity/Q30"
    }
  },
  "location": { "@id": "{{domain}}/#PostalAddress" },
  "areaServed": [],
  "sameAs": [],
  "keywords": [],
  "subOrganization": []
}`,

	"LocalBusiness": `{
  "@context": "https://schema.org",
  "@graph": [
    {
      "@type": "GeoCoordinates",
      "@id": "{{url}}#GeoCoordinates",
      "name": "{{location_name}} Geocoordinates",
      "latitude": "{{latitude}}",
      "longitude": "{{longitude}}"
    },
    {
      "@type": "LocalBusiness",
      "@id": "{{url}}#LocalBusiness",
      "name": "{{business_name}} - {{location_name}}",
      "legalName": "{{legal_name}}",
      "alternateName": "{{alternate_name}}",
      "description": "{{description}}",
      "disambiguatingDescription": "{{extended_description}}",
      "url": "{{url}}",
      "logo": "{{logo_url}}",
      "telephone": "+1{{phone}}",
      "email": "{{email}}",
      "priceRange": "$$",
      "foundingDate": "{{YYYY-MM-DD}}",
      "foundingLocation": { "@id": "{{wikidata_founding_city}}" },
      "numberOfEmployees": "{{number}}",
      "address": {
        "@type": "PostalAddress",
        "@id": "{{url}}#PostalAddress",
        "name": "{{location_name}} Address",
        "streetAddress": "{{street}}",
        "addressLocality": "{{city}}",
        "addressRegion": "{{state}}",
        "postalCode": "{{zip}}",
        "addressCountry": { "@id": "http://www.wikidata.org/entity/Q30" }
      },
      "location": { "@id": "{{url}}#PostalAddress" },
      "geo": { "@id": "{{url}}#GeoCoordinates" },
      "hasMap": "{{google_maps_url}}",
      "parentOrganization": { "@id": "{{domain}}/#Organization" },
      "areaServed": [],
      "openingHoursSpecification": {
        "@type": "OpeningHoursSpecification",
        "@id": "{{url}}#OpeningHoursSpecification",
        "name": "Opening Hours",
        "dayOfWeek": ["Monday", "Tuesday", "Wednesday", "Thursday", "Friday"],
        "opens": "08:00:00",
        "closes": "17:00:00"
      },
      "sameAs": [],
      "keywords": []
    }
  ]
}`,

	"Service": `{
  "@context": "https://schema.org",
  "@graph": [
    {
      "@type": "Service",
      "@id": "{{url}}#Service",
      "name": "{{service_name}}",
      "serviceType": "{{service_category}}",
      "description": "{{description}}",
      "disambiguatingDescription": "{{extended_description}}",
      "url": "{{url}}",
      "logo": "{{logo_url}}",
      "provider": { "@id": "{{domain}}/#Organization" },
      "brand": { "@id": "{{domain}}/#Organization" },
      "areaServed": [],
      "sameAs": [],
      "isRelatedTo": [],
      "isSimilarTo": [],
      "hasOfferCatalog": {
        "@type": "OfferCatalog",
        "@id": "{{url}}#OfferCatalog",
        "name": "{{service_name}} Services",
        "itemListElement": []
      }
    }
  ]
}`,

	"WebContent": `{
  "@context": "https://schema.org",
  "@graph": [
    {
      "@type": "WebContent",
      "@id": "{{url}}#WebContent",
      "headline": "{{h1_title}}",
      "description": "{{description}}",
      "disambiguatingDescription": "{{extended_description}}",
      "url": "{{url}}",
      "image": "{{featured_image_url}}",
      "dateCreated": "{{ISO_datetime}}",
      "dateModified": "{{ISO_datetime}}",
      "datePublished": "{{YYYY-MM-DD}}",
      "about": { "@id": "{{domain}}/#Organization" },
      "creator": { "@id": "{{domain}}/#Organization" },
      "contributor": { "@id": "{{domain}}/#Organization" },
      "maintainer": { "@id": "{{domain}}/#Organization" },
      "contentLocation": { "@id": "{{wikidata_metro_area}}" },
      "locationCreated": { "@id": "{{wikidata_city}}" },
      "countryOfOrigin": { "@id": "http://www.wikidata.org/entity/Q30" },
      "mentions": [],
      "keywords": []
    }
  ]
}`,

	"AboutPage": `{
  "@context": "https://schema.org",
  "@graph": [
    {
      "@type": "AboutPage",
      "@id": "{{url}}#AboutPage",
      "name": "{{page_title}}",
      "description": "{{description}}",
      "url": "{{url}}",
      "about": { "@id": "{{domain}}/#Organization" },
      "mainEntity": { "@id": "{{domain}}/#Organization" }
    }
  ]
}`,

	"Person": `{
  "@context": "https://schema.org",
  "@graph": [
    {
      "@type": "Person",
      "@id": "{{url}}#Person",
      "name": "{{full_name}}",
      "givenName": "{{first_name}}",
      "familyName": "{{last_name}}",
      "jobTitle": "{{job_title}}",
      "description": "{{bio_description}}",
      "url": "{{url}}",
      "image": {
        "@type": "ImageObject",
        "url": "{{headshot_url}}",
        "width": 800,
        "height": 800,
        "caption": "{{full_name}}, {{job_title}}"
      },
      "worksFor": { "@id": "{{domain}}/#Organization" },
      "sameAs": [],
      "alumniOf": [],
      "knowsAbout": []
    }
  ]
}`,
}

// TemplateFor returns the JSON-LD template for a page type, or the empty
// string when none exists.
func TemplateFor(typeName string) string {
	return Templates[typeName]
}
