package server

import (
	"net/http"

	"gohan-planner/internal/mealplan"
	"gohan-planner/internal/metrics"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Password string `json:"password"`
}

// generatePlan returns a fresh plan without weekOf and without saving it.
func (s *Server) generatePlan(c *gin.Context) {
	plan, err := s.app.Generate(c.Request.Context())
	if err != nil {
		s.log.Error("generation error", "error", err)
		respondError(c, http.StatusInternalServerError, generationErrorMessage(err))
		return
	}
	respondOK(c, plan)
}

func (s *Server) apiLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgBadRequest)
		return
	}

	token, err := s.gate.Login(req.Password)
	if err != nil {
		respondAppError(c, err, msgBadRequest)
		return
	}
	http.SetCookie(c.Writer, s.gate.SessionCookie(token))
	respondOK(c, gin.H{"ok": true})
}

func (s *Server) apiLogout(c *gin.Context) {
	http.SetCookie(c.Writer, s.gate.ClearCookie())
	respondOK(c, gin.H{"ok": true})
}

func (s *Server) health(c *gin.Context) {
	respondOK(c, gin.H{
		"status":           "ok",
		"storageAvailable": s.app.StorageAvailable(),
		"system":           metrics.GetSysHealth(s.dataDir),
	})
}

func (s *Server) getPlan(c *gin.Context) {
	plan, err := s.app.CurrentPlan(c.Request.Context())
	if err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	if plan == nil {
		respondError(c, http.StatusNotFound, msgNoPlan)
		return
	}
	respondOK(c, plan)
}

func (s *Server) putPlan(c *gin.Context) {
	var plan mealplan.WeeklyPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		respondError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := s.app.SavePlan(c.Request.Context(), &plan); err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	respondOK(c, plan)
}

// regeneratePlan generates, stamps and saves a plan.
func (s *Server) regeneratePlan(c *gin.Context) {
	plan, err := s.app.GenerateWeeklyPlan(c.Request.Context())
	if err != nil {
		s.log.Error("generation error", "error", err)
		respondError(c, http.StatusInternalServerError, generationErrorMessage(err))
		return
	}
	respondOK(c, plan)
}

func (s *Server) getShopping(c *gin.Context) {
	plan, groups, err := s.app.ShoppingView(c.Request.Context())
	if err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	if plan == nil {
		respondError(c, http.StatusNotFound, msgNoPlan)
		return
	}
	respondOK(c, gin.H{"weekOf": plan.WeekOf, "groups": groups})
}

func (s *Server) listFavorites(c *gin.Context) {
	favorites, err := s.app.Favorites(c.Request.Context())
	if err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	respondOK(c, favorites)
}

func (s *Server) addFavorite(c *gin.Context) {
	var meal mealplan.Meal
	if err := c.ShouldBindJSON(&meal); err != nil {
		respondError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	if err := s.app.SaveFavorite(c.Request.Context(), meal); err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	s.listFavorites(c)
}

func (s *Server) toggleFavorite(c *gin.Context) {
	var meal mealplan.Meal
	if err := c.ShouldBindJSON(&meal); err != nil {
		respondError(c, http.StatusBadRequest, msgBadRequest)
		return
	}
	favorite, err := s.app.ToggleFavorite(c.Request.Context(), meal)
	if err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	respondOK(c, gin.H{"id": meal.ID, "favorite": favorite})
}

func (s *Server) deleteFavorite(c *gin.Context) {
	if err := s.app.RemoveFavorite(c.Request.Context(), c.Param("id")); err != nil {
		respondAppError(c, err, msgStorageFailed)
		return
	}
	s.listFavorites(c)
}
