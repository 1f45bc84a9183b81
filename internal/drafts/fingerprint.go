package drafts

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/talc/internal/frontmatter"
)

const (
	keyUpdateDate  = "update_date"
	keyPublishDate = "publish_date"
	keyCreateDate  = "create_date"
	keyUID         = "uid"
	keyTitle       = "title"
)

// Fingerprint returns the content fingerprint of a document. The stored
// fingerprint, the uid and the workflow dates are excluded so that only
// authored changes alter it.
func Fingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case mdfp.FingerprintField, keyUID, keyCreateDate, keyPublishDate, keyUpdateDate:
			continue
		}
		hashed[k] = v
	}

	serialized, err := frontmatter.Canonical(hashed)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// storedFingerprint returns the fingerprint recorded in fields, if any.
func storedFingerprint(fields map[string]any) string {
	fp, _ := fields[mdfp.FingerprintField].(string)
	return strings.TrimSpace(fp)
}
