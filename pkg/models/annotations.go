package models

// Segment is a half-open time window within a video, in seconds.
type Segment struct {
	Start float64 `json:"start_time_offset"`
	End   float64 `json:"end_time_offset"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// ShotAnnotation is one shot boundary segment.
type ShotAnnotation struct {
	Segment Segment `json:"segment"`
}

// LabelAnnotation is one recognized entity with the segments it appears in.
type LabelAnnotation struct {
	Entity      string    `json:"entity"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	Segments    []Segment `json:"segments"`
}

// TextAnnotation is one piece of detected on-screen text.
type TextAnnotation struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments"`
}

// LogoTrack is one tracked appearance of a logo. BoxArea is the bounding
// box area as a fraction of the frame.
type LogoTrack struct {
	Segment Segment `json:"segment"`
	BoxArea float64 `json:"box_area"`
}

// LogoAnnotation is one recognized logo entity with its tracks.
type LogoAnnotation struct {
	Entity      string      `json:"entity"`
	Description string      `json:"description"`
	Tracks      []LogoTrack `json:"tracks"`
}

// FaceTrack is one tracked face appearance. BoxArea is the bounding box
// area as a fraction of the frame.
type FaceTrack struct {
	Segment Segment `json:"segment"`
	BoxArea float64 `json:"box_area"`
}

// FaceAnnotation is one detected face with its tracks.
type FaceAnnotation struct {
	Tracks []FaceTrack `json:"tracks"`
}

// PersonAnnotation is one detected person with the segments they appear in.
type PersonAnnotation struct {
	Tracks []Segment `json:"tracks"`
}

// WordInfo is one transcribed word with its timing.
type WordInfo struct {
	Word  string  `json:"word"`
	Start float64 `json:"start_time"`
	End   float64 `json:"end_time"`
}

// SpeechTranscription is one transcription alternative for an audio span.
type SpeechTranscription struct {
	Transcript string     `json:"transcript"`
	Confidence float64    `json:"confidence"`
	Words      []WordInfo `json:"words"`
}

// AnnotationBundle carries the seven annotation channels for one video.
// Any or all channels may be empty when annotation generation is disabled.
type AnnotationBundle struct {
	Labels []LabelAnnotation     `json:"label_annotations"`
	Faces  []FaceAnnotation      `json:"face_annotations"`
	People []PersonAnnotation    `json:"people_annotations"`
	Shots  []ShotAnnotation      `json:"shot_annotations"`
	Texts  []TextAnnotation      `json:"text_annotations"`
	Logos  []LogoAnnotation      `json:"logo_annotations"`
	Speech []SpeechTranscription `json:"speech_transcriptions"`
}

// Empty reports whether no channel carries any records.
func (b AnnotationBundle) Empty() bool {
	return len(b.Labels) == 0 && len(b.Faces) == 0 && len(b.People) == 0 &&
		len(b.Shots) == 0 && len(b.Texts) == 0 && len(b.Logos) == 0 &&
		len(b.Speech) == 0
}
