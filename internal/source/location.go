package source

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Mount node conventions shared with the host page.
const (
	MountNodeID       = "lmi-dashboard-root"
	MountLocationAttr = "data-csv-url"
	mountNodeSelector = "#" + MountNodeID
)

// ResolveLocation picks the dataset location from the two channels the
// embedding environment can use, in precedence order: the configured value,
// then the mount node attribute. Blank candidates are skipped.
func ResolveLocation(configured, mountAttr string) (string, error) {
	for _, candidate := range []string{configured, mountAttr} {
		if loc := strings.TrimSpace(candidate); loc != "" {
			return loc, nil
		}
	}
	return "", ErrMissingSource
}

// MountAttribute reads the data-csv-url attribute of the mount node from an
// HTML document. A page without the node or attribute yields "".
func MountAttribute(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse host page: %w", err)
	}
	value, _ := doc.Find(mountNodeSelector).First().Attr(MountLocationAttr)
	return strings.TrimSpace(value), nil
}

// ReadMountPage fetches a host page through f and returns its mount node attribute.
func ReadMountPage(ctx context.Context, f Fetcher, page string) (attr string, err error) {
	if strings.TrimSpace(page) == "" {
		return "", nil
	}
	body, err := f.Fetch(ctx, page)
	if err != nil {
		return "", fmt.Errorf("failed to fetch host page %s: %w", page, err)
	}
	defer func() {
		if cerr := body.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close host page %s: %w", page, cerr)
		}
	}()
	return MountAttribute(body)
}
