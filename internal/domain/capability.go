package domain

// CapabilityStatus снимок доступности опциональных модулей.
// Формируется один раз при старте и дальше только читается.
type CapabilityStatus struct {
	EngineAvailable        bool `json:"engineAvailable"`
	EphemerisDataAvailable bool `json:"ephemerisDataAvailable"`
	GeocoderAvailable      bool `json:"geocoderAvailable"`
}

// Missing возвращает имена недоступных модулей
func (s CapabilityStatus) Missing() []string {
	var missing []string
	if !s.EngineAvailable {
		missing = append(missing, "engine")
	}
	if !s.EphemerisDataAvailable {
		missing = append(missing, "ephemeris")
	}
	if !s.GeocoderAvailable {
		missing = append(missing, "geocoder")
	}
	return missing
}
