package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PassphraseList verifies a submitted passphrase against the configured
// shared list. Entries are bcrypt hashes; the list is small (a handful of
// rotating passphrases shared with the pastors), so a linear scan is fine.
type PassphraseList struct {
	hashes []string
}

// NewPassphraseList builds the verifier from bcrypt hashes plus optional
// plaintext development entries, which are hashed immediately.
func NewPassphraseList(hashes, plaintexts []string) (*PassphraseList, error) {
	all := make([]string, 0, len(hashes)+len(plaintexts))
	all = append(all, hashes...)
	for _, p := range plaintexts {
		h, err := HashPassphrase(p)
		if err != nil {
			return nil, err
		}
		all = append(all, h)
	}
	return &PassphraseList{hashes: all}, nil
}

// Empty reports whether no passphrases are configured (login always fails).
func (l *PassphraseList) Empty() bool {
	return len(l.hashes) == 0
}

// Verify reports whether the passphrase matches any configured entry.
func (l *PassphraseList) Verify(passphrase string) bool {
	for _, h := range l.hashes {
		if bcrypt.CompareHashAndPassword([]byte(h), []byte(passphrase)) == nil {
			return true
		}
	}
	return false
}

// HashPassphrase hashes a plain passphrase using bcrypt.
func HashPassphrase(passphrase string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	return string(bytes), err
}
