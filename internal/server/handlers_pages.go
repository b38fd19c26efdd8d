package server

import (
	"net/http"

	"gohan-planner/internal/auth"
	"gohan-planner/internal/mealplan"

	"github.com/gin-gonic/gin"
)

func (s *Server) indexPage(c *gin.Context) {
	s.renderIndex(c, http.StatusOK, "")
}

func (s *Server) renderIndex(c *gin.Context, status int, errMsg string) {
	ctx := c.Request.Context()
	data := pageData{Title: "今週の献立", Active: "plan", ShowNav: true, Error: errMsg}

	plan, err := s.app.CurrentPlan(ctx)
	if err != nil {
		s.pageError(c, err)
		return
	}
	favIDs, err := s.app.FavoriteIDs(ctx)
	if err != nil {
		s.pageError(c, err)
		return
	}

	if plan != nil {
		data.Plan = plan
		if weekRange, err := mealplan.WeekRange(plan.WeekOf); err == nil {
			data.WeekRange = weekRange
		}
		for _, m := range plan.Meals {
			data.Meals = append(data.Meals, mealCard{Meal: m, Favorite: favIDs[m.ID], Action: "/favorites/toggle"})
		}
	}
	c.HTML(status, "index", data)
}

// generatePage runs a generation from the plan page form.
func (s *Server) generatePage(c *gin.Context) {
	if _, err := s.app.GenerateWeeklyPlan(c.Request.Context()); err != nil {
		s.log.Error("generation error", "error", err)
		s.renderIndex(c, http.StatusInternalServerError, generationErrorMessage(err))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) shoppingPage(c *gin.Context) {
	plan, groups, err := s.app.ShoppingView(c.Request.Context())
	if err != nil {
		s.pageError(c, err)
		return
	}
	data := pageData{Title: "買い物リスト", Active: "shopping", ShowNav: true, Plan: plan, Groups: groups}
	if plan != nil {
		data.ItemCount = len(plan.ShoppingList)
	}
	c.HTML(http.StatusOK, "shopping", data)
}

func (s *Server) favoritesPage(c *gin.Context) {
	favorites, err := s.app.Favorites(c.Request.Context())
	if err != nil {
		s.pageError(c, err)
		return
	}
	data := pageData{Title: "お気に入り", Active: "favorites", ShowNav: true}
	for _, f := range favorites {
		data.Favorites = append(data.Favorites, mealCard{Meal: f.Meal, Favorite: true, Action: "/favorites/remove"})
	}
	c.HTML(http.StatusOK, "favorites", data)
}

func (s *Server) toggleFavoritePage(c *gin.Context) {
	if _, err := s.app.ToggleFavoriteByID(c.Request.Context(), c.PostForm("id")); err != nil {
		s.log.Warn("failed to toggle favorite", "id", c.PostForm("id"), "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) removeFavoritePage(c *gin.Context) {
	if err := s.app.RemoveFavorite(c.Request.Context(), c.PostForm("id")); err != nil {
		s.log.Warn("failed to remove favorite", "id", c.PostForm("id"), "error", err)
	}
	c.Redirect(http.StatusSeeOther, "/favorites")
}

func (s *Server) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login", pageData{Title: "ログイン", Redirect: auth.SafeRedirect(c.Query("redirect"))})
}

func (s *Server) loginSubmit(c *gin.Context) {
	redirect := auth.SafeRedirect(c.PostForm("redirect"))
	token, err := s.gate.Login(c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		if !s.gate.Enabled() {
			status = http.StatusInternalServerError
		}
		c.HTML(status, "login", pageData{Title: "ログイン", Error: err.Error(), Redirect: redirect})
		return
	}
	http.SetCookie(c.Writer, s.gate.SessionCookie(token))
	c.Redirect(http.StatusSeeOther, redirect)
}

func (s *Server) pageError(c *gin.Context, err error) {
	s.log.Error("failed to load page data", "path", c.Request.URL.Path, "error", err)
	c.String(http.StatusInternalServerError, msgStorageFailed)
}
