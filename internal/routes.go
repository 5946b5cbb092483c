package internal

import (
	"net/http"

	"adoptwatch/internal/controllers"
	"adoptwatch/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/listings", http.HandlerFunc(apiController.GetListings))
	routers.Get("/listings/{id}", http.HandlerFunc(apiController.GetListing))

	routers.Get("/favorites", http.HandlerFunc(apiController.GetFavorites))
	routers.Post("/favorites", http.HandlerFunc(apiController.AddFavorite))
	routers.Delete("/favorites/{id}", http.HandlerFunc(apiController.DeleteFavorite))
	routers.Post("/favorites/disclaimer", http.HandlerFunc(apiController.SetDisclaimer))

	routers.Get("/seen", http.HandlerFunc(apiController.GetSeen))
	routers.Post("/seen", http.HandlerFunc(apiController.MarkSeen))
	routers.Delete("/seen", http.HandlerFunc(apiController.ClearSeen))
	routers.Put("/seen/enabled", http.HandlerFunc(apiController.SetSeenEnabled))

	routers.Get("/presets", http.HandlerFunc(apiController.GetPresets))
	routers.Post("/presets", http.HandlerFunc(apiController.SavePreset))
	routers.Delete("/presets/{id}", http.HandlerFunc(apiController.DeletePreset))

	routers.Get("/checklists/{id}", http.HandlerFunc(apiController.GetChecklist))
	routers.Put("/checklists/{id}", http.HandlerFunc(apiController.UpdateChecklist))

	routers.Get("/preferences", http.HandlerFunc(apiController.GetPreferences))
	routers.Put("/preferences", http.HandlerFunc(apiController.UpdatePreferences))

	routers.Post("/new-matches/clear", http.HandlerFunc(apiController.ClearNewMatches))

	routers.Get("/backup", http.HandlerFunc(apiController.ExportBackup))
	routers.Post("/backup", http.HandlerFunc(apiController.ImportBackup))
	return routers
}
