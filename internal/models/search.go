package models

// AISearchResult is the response shape of the room-recommendation
// collaborator. On any failure the collaborator degrades to an empty ID list
// with an apology string instead of an error.
type AISearchResult struct {
	RecommendedRoomIDs []string `json:"recommendedRoomIds"`
	Reasoning          string   `json:"reasoning"`
}
