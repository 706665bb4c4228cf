package nominatim

// SearchResult элемент ответа /search, координаты приходят строками
type SearchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
