package browser

import "cinebox/models"

// Grid messages shown in place of result cards.
const (
	MsgSearching = "🔍 Buscando..."
	MsgSearchErr = "❌ Error al buscar"
	MsgNoResults = "😕 No se encontraron resultados"
	MsgListErr   = "❌ Error al cargar la lista"
	MsgRestoring = "⏳ Restaurando contenido..."
)

// ListLoadingMessage is shown while a dropdown list is fetched.
func ListLoadingMessage(kind models.ListKind) string {
	switch kind {
	case models.ListSeries:
		return "📺 Cargando series..."
	case models.ListAnime:
		return "🎌 Cargando anime..."
	}
	return "🎬 Cargando películas..."
}
