package api

import "fds/pkg/fds"

type ingestTradesPayload struct {
	Trades []fds.RawTrade `json:"trades"`
}

type ingestPositionsPayload struct {
	Positions []fds.RawPosition `json:"positions"`
}
