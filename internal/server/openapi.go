package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/lichsu-edu/meono/internal/content"
	"github.com/lichsu-edu/meono/internal/handler/health"
	"github.com/lichsu-edu/meono/internal/meono"
)

// ErrorResponse is returned for all error responses. Rejected commands
// carry the machine-readable code and the unchanged state.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  string           `json:"code,omitempty"`
	State *meono.GameState `json:"state,omitempty"`
}

type gamePath struct {
	GameID string `path:"gameID"`
}

type hostHeader struct {
	GameID  string `path:"gameID"`
	HostPIN string `header:"X-Host-Pin" description:"Host PIN, required when the game was created with one."`
}

type commandRequest struct {
	GameID  string `path:"gameID"`
	HostPIN string `header:"X-Host-Pin"`
	meono.Command
}

type questionPath struct {
	QuestionID string `path:"questionID"`
}

type backupPath struct {
	Deck string `path:"deck"`
	N    int    `path:"n" minimum:"1"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Mèo Nổ API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Table host for the Mèo Nổ classroom card game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/decks
	listDecks, _ := r.NewOperationContext(http.MethodGet, "/api/decks")
	listDecks.SetSummary("List decks")
	listDecks.SetDescription("Returns the question decks with bank and backup counts.")
	listDecks.AddRespStructure([]content.Deck{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listDecks)

	// GET /api/decks/{deck}/backup/{n}
	getBackup, _ := r.NewOperationContext(http.MethodGet, "/api/decks/{deck}/backup/{n}")
	getBackup.SetSummary("Backup question")
	getBackup.SetDescription("Returns the n-th backup question of a deck, wrapping around the pool.")
	getBackup.AddReqStructure(backupPath{})
	getBackup.AddRespStructure(meono.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getBackup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	getBackup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBackup)

	// GET /api/questions/{questionID}
	getQuestion, _ := r.NewOperationContext(http.MethodGet, "/api/questions/{questionID}")
	getQuestion.SetSummary("Question payload")
	getQuestion.SetDescription("Resolves a question id to its payload for display.")
	getQuestion.AddReqStructure(questionPath{})
	getQuestion.AddRespStructure(meono.Question{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestion.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQuestion)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Sets up a table with four teams and the question bank of a deck.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the rules and the current state of a game.")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Remove game")
	deleteGame.SetDescription("Removes a game and closes its event streams.")
	deleteGame.AddReqStructure(hostHeader{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{gameID}/commands
	postCommand, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/commands")
	postCommand.SetSummary("Apply command")
	postCommand.SetDescription("Applies one turn command. A rejected command returns its error code and the unchanged state.")
	postCommand.AddReqStructure(commandRequest{})
	postCommand.AddRespStructure(CommandResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postCommand.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postCommand.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postCommand.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postCommand.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postCommand)

	// POST /api/games/{gameID}/undo
	postUndo, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/undo")
	postUndo.SetSummary("Undo")
	postUndo.SetDescription("Restores the state before the last accepted command.")
	postUndo.AddReqStructure(hostHeader{})
	postUndo.AddRespStructure(UndoResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postUndo.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postUndo)

	// GET /api/games/{gameID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of the game's state for table displays.")
	getEvents.AddReqStructure(gamePath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
