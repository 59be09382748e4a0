package network

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/automoto/skirmish/shared/directory"
)

var lookupClient = &http.Client{Timeout: 5 * time.Second}

// Lookup lists the servers the master directory matches for f.
func Lookup(ctx context.Context, masterURL string, f directory.Filter) ([]directory.ServerInfo, error) {
	q := url.Values{}
	if f.Version != "" {
		q.Set("version", f.Version)
	}
	if f.Loadout != "" {
		q.Set("loadout", f.Loadout)
	}
	if f.OpenOnly {
		q.Set("open", strconv.FormatBool(true))
	}
	target := masterURL + directory.PathServers
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("lookup request: %w", err)
	}
	resp, err := lookupClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup: unexpected status %d", resp.StatusCode)
	}
	var servers []directory.ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, fmt.Errorf("lookup: decode: %w", err)
	}
	return servers, nil
}

// PickServer returns the first open server the directory offers for version
// and loadout.
func PickServer(ctx context.Context, masterURL, version, loadout string) (directory.ServerInfo, error) {
	f := directory.Filter{Version: version, Loadout: loadout, OpenOnly: true}
	servers, err := Lookup(ctx, masterURL, f)
	if err != nil {
		return directory.ServerInfo{}, err
	}
	for _, s := range servers {
		if f.Match(s) {
			return s, nil
		}
	}
	return directory.ServerInfo{}, fmt.Errorf("no open server for version %q and loadout %q", version, loadout)
}
