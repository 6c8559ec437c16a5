package handlers

import "github.com/kozaktomas/koya-pay/internal/koya"

// screenResponse mirrors the JSON of shell.Snapshot with plain string phases.
type screenResponse struct {
	Path   string `json:"path"`
	Screen string `json:"screen"`
	Upload *struct {
		FileName string `json:"file_name"`
		Status   string `json:"status"`
		Message  string `json:"message"`
	} `json:"upload"`
	Camera *struct {
		Phase     string `json:"phase"`
		Streaming bool   `json:"streaming"`
		FileName  string `json:"file_name"`
		Error     string `json:"error"`
	} `json:"camera"`
	Database *struct {
		Entries []string `json:"entries"`
		Pending string   `json:"pending"`
		Error   string   `json:"error"`
	} `json:"database"`
	Match *struct {
		Phase   string             `json:"phase"`
		Results []koya.MatchResult `json:"results"`
		Error   string             `json:"error"`
	} `json:"face_match"`
	Location *struct {
		TargetID string `json:"target_id"`
		Draft    string `json:"draft"`
		Phase    string `json:"phase"`
		Error    string `json:"error"`
		Invalid  bool   `json:"invalid"`
	} `json:"location"`
}
