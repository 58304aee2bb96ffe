package finding

// Canonical vulnerability categories. Adapters map scanner-native
// classes onto these; unrecognized classes pass through as lowercase
// slugs so no record is lost.
const (
	CategorySQLInjection    = "sql-injection"
	CategoryInjectionRCE    = "injection-rce"
	CategoryXSS             = "xss"
	CategoryCSRF            = "csrf"
	CategoryAuthBypass      = "auth-bypass"
	CategorySSRF            = "ssrf"
	CategoryPathTraversal   = "path-traversal"
	CategoryOpenRedirect    = "open-redirect"
	CategoryXXE             = "xxe"
	CategoryDeserialization = "insecure-deserialization"
	CategoryInfoDisclosure  = "information-disclosure"
	CategoryMissingHeader   = "missing-security-header"
	CategoryCookieFlags     = "insecure-cookie"
	CategoryMisconfig       = "misconfiguration"
	CategoryWeakCrypto      = "weak-crypto"
	CategoryOutdatedSoft    = "outdated-software"
)
