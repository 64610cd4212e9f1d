package dto

// Detection is one object found by the fish-detection inference server.
type Detection struct {
	ClassName  string  `json:"class_name"`
	Confidence float64 `json:"confidence"`
	Box        [4]int  `json:"box"`
}

// DetectionsResponse mirrors the inference server's /detections payload.
type DetectionsResponse struct {
	Detections []Detection `json:"detections"`
}
