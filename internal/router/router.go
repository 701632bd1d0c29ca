package router

import (
	"net/http"

	"github.com/senyabanana/tender-marketplace/internal/handlers"
)

func InitRoutes(requestHandler *handlers.RequestHandler, offerHandler *handlers.OfferHandler, questionHandler *handlers.QuestionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("POST /api/requests/new", requestHandler.CreateRequest)
	mux.HandleFunc("GET /api/requests", requestHandler.GetRequests)
	mux.HandleFunc("GET /api/requests/my", requestHandler.GetUserRequests)
	mux.HandleFunc("GET /api/requests/{requestId}", requestHandler.GetRequest)
	mux.HandleFunc("POST /api/requests/{requestId}/select/{offerId}", requestHandler.SelectWinner)
	mux.HandleFunc("GET /api/requests/{requestId}/contract", requestHandler.GetContract)

	mux.HandleFunc("POST /api/offers/new", offerHandler.CreateOffer)
	mux.HandleFunc("GET /api/offers/my", offerHandler.GetUserOffers)
	mux.HandleFunc("GET /api/requests/{requestId}/offers", offerHandler.GetRequestOffers)

	mux.HandleFunc("POST /api/requests/{requestId}/questions", questionHandler.AskQuestion)
	mux.HandleFunc("GET /api/requests/{requestId}/questions", questionHandler.GetRequestQuestions)
	mux.HandleFunc("PUT /api/questions/{questionId}/answer", questionHandler.AnswerQuestion)

	return mux
}
