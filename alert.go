package chainassure

import "context"

// Alert is the location payload forwarded once the connected address is
// verified. Coordinates and the coarse geohash come from the location
// layer; this package treats them as opaque.
type Alert struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Geohash string  `json:"geohash"`
}

// SendAlert forwards an alert for the connected, verified address.
// Delivery is currently a logging stub; the gate on the verified flag
// is the part that matters.
func (o *Orchestrator) SendAlert(ctx context.Context, alert Alert) error {
	o.mu.Lock()
	conn := o.conn
	o.mu.Unlock()
	if !conn.HasAccount() {
		return NewFlowError(ErrCodeNotConnected, "wallet not connected", nil)
	}
	if !o.Verified() {
		return NewFlowError(ErrCodeNotVerified,
			"connected address is not verified", nil)
	}
	// TODO: wire the alert transport once the backend endpoint exists.
	o.log.Info("alert dispatched",
		"from", conn.Address, "lat", alert.Lat, "lon", alert.Lon,
		"geohash", alert.Geohash)
	return nil
}
