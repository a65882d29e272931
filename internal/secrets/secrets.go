// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads crawler credentials from a directory of plain-text
// files. Each file holds one secret: the filename is the key and the
// trimmed file contents are the value.
//
// Supported keys: crawler-contact-email.
package secrets

import (
	"fmt"
	"io"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ContactEmailKey names the file holding the address sent in the From
// header of crawl requests.
const ContactEmailKey = "crawler-contact-email"

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields empty Secrets. Unreadable files are reported on
// warn and skipped.
func Load(dir string, warn io.Writer) (Secrets, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Keys returns the loaded key names in sorted order.
func (s Secrets) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ContactEmail returns the crawler contact address, or "" when it is
// missing or not a bare email address.
func (s Secrets) ContactEmail() string {
	v := s[ContactEmailKey]
	if v == "" {
		return ""
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v {
		return ""
	}
	return v
}
