package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"cipherlab/internal/catalogue"
)

type algorithmView struct {
	catalogue.Spec
	SizeSelectable bool        `json:"size_selectable"`
	KeyHexChars    map[int]int `json:"key_hex_chars,omitempty"`
	NonceHexChars  int         `json:"nonce_hex_chars,omitempty"`
}

func viewOf(s catalogue.Spec) algorithmView {
	v := algorithmView{Spec: s, SizeSelectable: s.SizeSelectable()}
	if s.HexKey() {
		v.KeyHexChars = make(map[int]int, len(s.KeySizesBits))
		for _, bits := range s.KeySizesBits {
			v.KeyHexChars[bits] = s.KeyHexChars(bits)
		}
	}
	if s.RequiresNonceOrIV {
		v.NonceHexChars = s.NonceHexChars()
	}
	return v
}

// GET /v1/algorithms
func ListAlgorithms(cat *catalogue.Catalogue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs := cat.All()
		rows := make([]algorithmView, 0, len(specs))
		for _, s := range specs {
			rows = append(rows, viewOf(s))
		}
		respondJSON(w, map[string]any{"data": rows, "count": len(rows)})
	}
}

// GET /v1/algorithms/{id}
func GetAlgorithm(cat *catalogue.Catalogue, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := cat.Lookup(chi.URLParam(r, "id"))
		if !ok {
			lg.Debugw("unknown algorithm requested", "id", chi.URLParam(r, "id"))
			http.Error(w, "algorithm not found", http.StatusNotFound)
			return
		}
		respondJSON(w, viewOf(s))
	}
}
