package textparse

import "regexp"

// Route is an administration route with its canonical abbreviation.
type Route struct {
	Code        string
	Description string
}

// routeRule pairs a detection pattern with its route. Rules are
// evaluated in order so more specific abbreviations win over loose
// keyword matches.
type routeRule struct {
	route Route
	re    *regexp.Regexp
}

var routeRules = []routeRule{
	{Route{"IV", "Intravenous"}, regexp.MustCompile(`(?i)\b(IV|intravenous)\b|តាមសរសៃ`)},
	{Route{"IM", "Intramuscular"}, regexp.MustCompile(`(?i)\b(IM|intramuscular)\b|ចាក់សាច់ដុំ`)},
	{Route{"SC", "Subcutaneous"}, regexp.MustCompile(`(?i)\b(SC|subcut(?:aneous)?)\b`)},
	{Route{"SL", "Sublingual"}, regexp.MustCompile(`(?i)\b(SL|sublingual)\b|ក្រោមអណ្ដាត`)},
	{Route{"PR", "Rectal"}, regexp.MustCompile(`(?i)\b(PR|rectal)\b`)},
	{Route{"TOP", "Topical"}, regexp.MustCompile(`(?i)\b(TOP|topical|external)\b|លាបខាងក្រៅ`)},
	{Route{"INH", "Inhaled"}, regexp.MustCompile(`(?i)\b(INH|inhaled|inhalation)\b`)},
	{Route{"PO", "Oral"}, regexp.MustCompile(`(?i)\b(PO|oral|per\s*os)\b|តាមមាត់`)},
}

// routePO is the default when nothing in the instructions matches.
var routePO = Route{Code: "PO", Description: "Oral"}

// DetectRoute scans free-form instruction text for an administration
// route. Oral is the default on the source forms, so an empty or
// unmatched string returns PO.
func DetectRoute(text string) Route {
	text = Normalize(text)
	for _, rule := range routeRules {
		if rule.re.MatchString(text) {
			return rule.route
		}
	}
	return routePO
}
