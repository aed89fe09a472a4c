package handler

import "net/http"

type card struct {
	Title       string
	Description string
}

var homeCards = []card{
	{"Financial Assessment", "Detailed analysis of your financial readiness for studying abroad"},
	{"Expert Guidance", "Professional advice on managing education expenses and investments"},
	{"Cost Planning", "Comprehensive planning for tuition, living expenses, and other costs"},
}

type homePage struct {
	Title string
	Cards []card
}

// HandleHome handles GET / requests.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, "home.html", homePage{
		Title: "University Insights",
		Cards: homeCards,
	})
}

// HandleHealth handles GET /health requests.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
