package hyperg

import (
	"encoding/json"
	"fmt"
)

// Command names understood by the daemon's /api endpoint.
const (
	commandID        = "id"
	commandAddresses = "addresses"
	commandUpload    = "upload"
	commandDownload  = "download"
)

// wireUser is the telemetry object carried under the reserved "user" key.
// Optional fields marshal away entirely when unset rather than as null.
type wireUser struct {
	ID           string      `json:"id"`
	Env          Environment `json:"env"`
	NodeName     string      `json:"nodeName,omitempty"`
	GolemVersion string      `json:"golemVersion,omitempty"`
}

// TransportKind tags a peer transport variant. The protocol reserves room
// for kinds beyond TCP even though none exist yet.
type TransportKind string

// TransportTCP is the only transport the daemon speaks today.
const TransportTCP TransportKind = "TCP"

// wirePeer serializes a PeerAddress in the tagged {"TCP":[host,port]} form
// so future transport kinds stay additive.
type wirePeer struct {
	addr PeerAddress
}

func (p wirePeer) MarshalJSON() ([]byte, error) {
	type tagged struct {
		TCP [2]any `json:"TCP"`
	}
	return json.Marshal(tagged{TCP: [2]any{p.addr.Host, p.addr.Port}})
}

// idRequest asks the daemon for its identity.
type idRequest struct {
	Command string    `json:"command"`
	User    *wireUser `json:"user,omitempty"`
}

// addressesRequest asks the daemon for its peer-facing endpoint.
type addressesRequest struct {
	Command string    `json:"command"`
	User    *wireUser `json:"user,omitempty"`
}

// uploadRequest asks the daemon to publish a set of local files. Files maps
// each path to the name peers will see (currently always the basename).
// Timeout is the daemon-side sharing duration in seconds and is always
// present on the wire, null when unset.
type uploadRequest struct {
	Command string            `json:"command"`
	Files   map[string]string `json:"files"`
	Timeout *float64          `json:"timeout"`
	User    *wireUser         `json:"user,omitempty"`
}

// downloadRequest asks the daemon to fetch a published file set from
// candidate peers. Timeout is omitted unless set, keeping the historical
// payload shape for timeout-less calls.
type downloadRequest struct {
	Command string     `json:"command"`
	Hash    string     `json:"hash"`
	Dest    string     `json:"dest"`
	Peers   []wirePeer `json:"peers"`
	Timeout *float64   `json:"timeout,omitempty"`
	User    *wireUser  `json:"user,omitempty"`
}

// Identity is the daemon's self-description.
type Identity struct {
	NodeID  string `json:"id"`
	Version string `json:"version"`
}

// AddressSpec is the endpoint the daemon advertises to peers, a tagged
// variant keyed by transport kind.
type AddressSpec struct {
	Kind TransportKind `json:"transport"`
	Host string        `json:"address"`
	Port int           `json:"port"`
}

func (a *AddressSpec) UnmarshalJSON(data []byte) error {
	var tagged map[TransportKind]struct {
		Address string `json:"address"`
		Port    int    `json:"port"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	entry, ok := tagged[TransportTCP]
	if !ok {
		return fmt.Errorf("address spec carries no supported transport (%d variants)", len(tagged))
	}
	a.Kind = TransportTCP
	a.Host = entry.Address
	a.Port = entry.Port
	return nil
}

// String renders the advertised endpoint for display.
func (a *AddressSpec) String() string {
	return fmt.Sprintf("%s %s:%d", a.Kind, a.Host, a.Port)
}

// Response bodies use pointer fields so a missing key is distinguishable
// from a present-but-zero value.
type idResponse struct {
	ID      *string `json:"id"`
	Version *string `json:"version"`
}

type addressesResponse struct {
	Addresses *AddressSpec `json:"addresses"`
}

type uploadResponse struct {
	Hash *string `json:"hash"`
}

type downloadResponse struct {
	Files *[]json.RawMessage `json:"files"`
}
