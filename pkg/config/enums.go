package config

import (
	"fmt"
	"strings"
)

type Transport string

const (
	TransportHTTP Transport = "http"
	TransportGRPC Transport = "grpc"
)

func (t *Transport) UnmarshalText(text []byte) error {
	switch v := Transport(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case TransportHTTP, TransportGRPC:
		*t = v
		return nil
	case "":
		*t = TransportHTTP
		return nil
	default:
		return fmt.Errorf("unknown model transport %q (expected http or grpc)", text)
	}
}

// PlacementMode says whether each model gets its own device or both share
// one accelerator context.
type PlacementMode string

const (
	PlacementDual   PlacementMode = "dual"
	PlacementSingle PlacementMode = "single"
)

func (p *PlacementMode) UnmarshalText(text []byte) error {
	switch v := PlacementMode(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case PlacementDual, PlacementSingle:
		*p = v
		return nil
	case "":
		*p = PlacementDual
		return nil
	default:
		return fmt.Errorf("unknown placement mode %q (expected dual or single)", text)
	}
}
