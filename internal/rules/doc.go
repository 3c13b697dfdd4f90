// Package rules contains the health rule engine.
//
// The engine walks the pages an audit collected and records issues for
// structural problems: error statuses, missing or malformed titles,
// heading problems, slow loads, thin content, missing alt text, missing
// canonical URLs, absent social tags and structured data, and titles
// duplicated across pages. Issue severities and remediation text come
// from the central rule metadata in the model package, and the sum of
// severity weights produces the report's 0-100 health score.
package rules
