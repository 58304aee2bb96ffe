package normalize

import (
	"strings"

	"github.com/vulndelta/vulndelta/pkg/finding"
)

// categoryAliases maps scanner-native category names onto the
// canonical classes. Keys are lowercase.
var categoryAliases = map[string]string{
	"sqli":                          finding.CategorySQLInjection,
	"sql injection":                 finding.CategorySQLInjection,
	"sql-injection":                 finding.CategorySQLInjection,
	"rce":                           finding.CategoryInjectionRCE,
	"command injection":             finding.CategoryInjectionRCE,
	"code injection":                finding.CategoryInjectionRCE,
	"os command injection":          finding.CategoryInjectionRCE,
	"xss":                           finding.CategoryXSS,
	"cross site scripting":          finding.CategoryXSS,
	"cross-site scripting":          finding.CategoryXSS,
	"csrf":                          finding.CategoryCSRF,
	"cross site request forgery":    finding.CategoryCSRF,
	"cross-site request forgery":    finding.CategoryCSRF,
	"auth bypass":                   finding.CategoryAuthBypass,
	"authentication bypass":         finding.CategoryAuthBypass,
	"broken authentication":         finding.CategoryAuthBypass,
	"ssrf":                          finding.CategorySSRF,
	"server side request forgery":   finding.CategorySSRF,
	"path traversal":                finding.CategoryPathTraversal,
	"directory traversal":           finding.CategoryPathTraversal,
	"lfi":                           finding.CategoryPathTraversal,
	"open redirect":                 finding.CategoryOpenRedirect,
	"xxe":                           finding.CategoryXXE,
	"xml external entity":           finding.CategoryXXE,
	"insecure deserialization":      finding.CategoryDeserialization,
	"information disclosure":        finding.CategoryInfoDisclosure,
	"info leak":                     finding.CategoryInfoDisclosure,
	"sensitive data exposure":       finding.CategoryInfoDisclosure,
	"misconfiguration":              finding.CategoryMisconfig,
	"security misconfiguration":     finding.CategoryMisconfig,
	"missing security header":       finding.CategoryMissingHeader,
	"weak crypto":                   finding.CategoryWeakCrypto,
	"cryptographic failure":         finding.CategoryWeakCrypto,
	"vulnerable component":          finding.CategoryOutdatedSoft,
	"outdated software":             finding.CategoryOutdatedSoft,
	"vulnerable javascript library": finding.CategoryOutdatedSoft,
}

// cweCategories maps well-known CWE identifiers to canonical classes,
// used when a scanner reports a CWE but no usable category name.
var cweCategories = map[string]string{
	"CWE-89":   finding.CategorySQLInjection,
	"CWE-78":   finding.CategoryInjectionRCE,
	"CWE-94":   finding.CategoryInjectionRCE,
	"CWE-79":   finding.CategoryXSS,
	"CWE-352":  finding.CategoryCSRF,
	"CWE-287":  finding.CategoryAuthBypass,
	"CWE-306":  finding.CategoryAuthBypass,
	"CWE-918":  finding.CategorySSRF,
	"CWE-22":   finding.CategoryPathTraversal,
	"CWE-601":  finding.CategoryOpenRedirect,
	"CWE-611":  finding.CategoryXXE,
	"CWE-502":  finding.CategoryDeserialization,
	"CWE-200":  finding.CategoryInfoDisclosure,
	"CWE-209":  finding.CategoryInfoDisclosure,
	"CWE-16":   finding.CategoryMisconfig,
	"CWE-693":  finding.CategoryMissingHeader,
	"CWE-1021": finding.CategoryMissingHeader,
	"CWE-614":  finding.CategoryCookieFlags,
	"CWE-1004": finding.CategoryCookieFlags,
	"CWE-327":  finding.CategoryWeakCrypto,
	"CWE-1104": finding.CategoryOutdatedSoft,
}

// titleHints maps title substrings to canonical classes, checked in
// order so the more specific classes win. Used only when neither the
// category field nor the CWE resolved.
var titleHints = []struct {
	substr   string
	category string
}{
	{"sql injection", finding.CategorySQLInjection},
	{"sqli", finding.CategorySQLInjection},
	{"command injection", finding.CategoryInjectionRCE},
	{"remote code execution", finding.CategoryInjectionRCE},
	{"code execution", finding.CategoryInjectionRCE},
	{"cross site scripting", finding.CategoryXSS},
	{"cross-site scripting", finding.CategoryXSS},
	{"xss", finding.CategoryXSS},
	{"csrf", finding.CategoryCSRF},
	{"request forgery token", finding.CategoryCSRF},
	{"authentication bypass", finding.CategoryAuthBypass},
	{"auth bypass", finding.CategoryAuthBypass},
	{"server side request forgery", finding.CategorySSRF},
	{"ssrf", finding.CategorySSRF},
	{"path traversal", finding.CategoryPathTraversal},
	{"directory traversal", finding.CategoryPathTraversal},
	{"open redirect", finding.CategoryOpenRedirect},
	{"xml external entity", finding.CategoryXXE},
	{"deserialization", finding.CategoryDeserialization},
	{"information disclosure", finding.CategoryInfoDisclosure},
	{"stack trace", finding.CategoryInfoDisclosure},
	{"directory listing", finding.CategoryInfoDisclosure},
	{"x-frame-options", finding.CategoryMissingHeader},
	{"content security policy", finding.CategoryMissingHeader},
	{"strict-transport-security", finding.CategoryMissingHeader},
	{"header missing", finding.CategoryMissingHeader},
	{"header not set", finding.CategoryMissingHeader},
	{"cookie", finding.CategoryCookieFlags},
	{"weak cipher", finding.CategoryWeakCrypto},
	{"tls", finding.CategoryWeakCrypto},
	{"outdated", finding.CategoryOutdatedSoft},
	{"vulnerable version", finding.CategoryOutdatedSoft},
	{"misconfigur", finding.CategoryMisconfig},
}

// canonicalCategory resolves a record's category. It returns the class
// and whether it had to be inferred (from CWE or title) rather than
// taken from the record's own category field.
func canonicalCategory(rec *Record, cwe string) (category string, inferred bool) {
	native := strings.ToLower(strings.TrimSpace(rec.Category))
	if native != "" {
		if canon, ok := categoryAliases[native]; ok {
			return canon, false
		}
		return slugify(native), false
	}

	// A category resolved from a reported CWE is a deterministic
	// mapping, not an inference; it does not lower confidence.
	if canon, ok := cweCategories[cwe]; ok {
		return canon, false
	}

	title := strings.ToLower(rec.Title)
	for _, hint := range titleHints {
		if strings.Contains(title, hint.substr) {
			return hint.category, true
		}
	}

	return "", false
}

// slugify turns an arbitrary category name into a lowercase
// dash-separated slug.
func slugify(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}
