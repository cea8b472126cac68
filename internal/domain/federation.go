package domain

import "time"

// ExperimentTypeConsensus labels every federation response.
const ExperimentTypeConsensus = "multi_ai_consensus"

// ModelResponse is one council member's answer.
type ModelResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

// FederationExperiment records a multi-model consensus run.
type FederationExperiment struct {
	ID        string
	Timestamp time.Time
	Query     string
	Models    []string
	Responses []ModelResponse
	Consensus string
}
