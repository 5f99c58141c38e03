package recognizer

// Detection is the backend's answer to a detection poll. When Found is false
// the other fields are empty.
type Detection struct {
	Found    bool   `json:"found"`
	Name     string `json:"name,omitempty"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}
