package server

import "github.com/carlosrabelo/nicswitch/core/domain/entities"

type adapterResponse struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

type adaptersResponse struct {
	Adapters []adapterResponse `json:"adapters"`
}

type selectionRequest struct {
	Interface1 string `json:"interface1"`
	Interface2 string `json:"interface2"`
}

type statusResponse struct {
	Selection entities.Selection `json:"selection"`
	Adapters  []adapterResponse  `json:"adapters"`
	Busy      bool               `json:"busy"`
}

type switchResponse struct {
	Disabled string `json:"disabled"`
	Enabled  string `json:"enabled"`
	Warning  string `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func newAdapterResponses(adapters []entities.Adapter) []adapterResponse {
	out := make([]adapterResponse, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, adapterResponse{Name: a.Name, State: string(a.State)})
	}
	return out
}
