package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"saba/internal/core"
	"saba/internal/inventory"
)

type stockForm struct {
	Name           string `schema:"name"`
	Quantity       string `schema:"quantity"`
	AlertThreshold string `schema:"alert_threshold"`
	Unit           string `schema:"unit"`
}

type recipeForm struct {
	Name        string `schema:"name"`
	ShelfLife   string `schema:"shelf_life"`
	Ingredients string `schema:"ingredients"`
	Steps       string `schema:"steps"`
}

type cookForm struct {
	Portions int  `schema:"portions"`
	Strict   bool `schema:"strict"`
}

func (s *Server) handleListStock(w http.ResponseWriter, r *http.Request) {
	stock, err := s.ledger.Stock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stockViews(stock))
}

func (s *Server) handleSetStockItem(w http.ResponseWriter, r *http.Request) {
	var form stockForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	qty, err := amountField("quantity", form.Quantity, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	threshold, err := amountField("alert_threshold", form.AlertThreshold, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	item, err := s.ledger.SetStockItem(r.Context(), core.StockItem{
		Name:           form.Name,
		Quantity:       qty,
		AlertThreshold: threshold,
		Unit:           form.Unit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStockItemView(item))
}

func (s *Server) handleLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := s.ledger.LowStock(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]stockItemView, 0, len(items))
	for _, item := range items {
		out = append(out, newStockItemView(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.ledger.Recipes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sortedValues(recipes))
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.ledger.Recipe(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// handleSaveRecipe accepts ingredients as "name: qty" pairs separated by
// ";" or newlines. A JSON object of name to quantity works too.
func (s *Server) handleSaveRecipe(w http.ResponseWriter, r *http.Request) {
	var form recipeForm
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	ingredients, err := parseIngredients(form.Ingredients)
	if err != nil {
		writeError(w, r, err)
		return
	}
	recipe, err := s.ledger.SaveRecipe(r.Context(), core.Recipe{
		Name:        form.Name,
		ShelfLife:   form.ShelfLife,
		Ingredients: ingredients,
		Steps:       form.Steps,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleRequirements(w http.ResponseWriter, r *http.Request) {
	portions, err := portionsParam(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := s.ledger.Requirements(r.Context(), mux.Vars(r)["name"], portions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleShoppingList(w http.ResponseWriter, r *http.Request) {
	portions, err := portionsParam(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.ledger.ShoppingList(r.Context(), mux.Vars(r)["name"], portions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if list == nil {
		list = []inventory.Shortage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"recipe":   mux.Vars(r)["name"],
		"portions": portions,
		"items":    list,
	})
}

// handleCook deducts a recipe from stock. Portions default to 1; strict
// refuses to cook when an ingredient is missing from stock.
func (s *Server) handleCook(w http.ResponseWriter, r *http.Request) {
	form := cookForm{Portions: 1}
	if err := decodeBody(w, r, &form); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.ledger.Cook(r.Context(), mux.Vars(r)["name"], form.Portions, form.Strict)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
