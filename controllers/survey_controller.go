package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/pesquisa-clima/middleware"
	"github.com/vnkhanh/pesquisa-clima/models"
	"github.com/vnkhanh/pesquisa-clima/services"
	"github.com/vnkhanh/pesquisa-clima/utils"
)

const (
	msgGeneric          = "Ocorreu um erro, tente novamente."
	msgInvalidLogin     = "Dados inválidos."
	msgAlreadyResponded = "Você já respondeu à pesquisa."
)

type SurveyController struct {
	survey  *services.SurveyService
	catalog *services.CatalogService
	secret  []byte
}

func NewSurveyController(db *gorm.DB, secret []byte) *SurveyController {
	return &SurveyController{
		survey:  services.NewSurveyService(db),
		catalog: services.NewCatalogService(db),
		secret:  secret,
	}
}

// GET /
func (sc *SurveyController) ShowLogin(c *gin.Context) {
	renderLogin(c, http.StatusOK, "", "")
}

// POST /
func (sc *SurveyController) Login(c *gin.Context) {
	cpf := c.PostForm("cpf")
	birthDate := c.PostForm("data_nascimento")

	r, err := sc.survey.Authenticate(c.Request.Context(), cpf, birthDate)
	if err != nil {
		var ve *services.ValidationError
		var ne *services.NotEligibleError
		switch {
		case errors.As(err, &ve):
			renderLogin(c, http.StatusBadRequest, ve.Message, cpf)
		case services.AlreadyResponded(err):
			renderLogin(c, http.StatusConflict, msgAlreadyResponded, cpf)
		case errors.As(err, &ne):
			renderLogin(c, http.StatusUnauthorized, msgInvalidLogin, cpf)
		default:
			log.Printf("respondent login failed: %v", err)
			renderLogin(c, http.StatusInternalServerError, msgGeneric, cpf)
		}
		return
	}

	token, err := utils.GenerateToken(sc.secret, strconv.FormatUint(uint64(r.ID), 10), utils.RoleRespondent, middleware.RespondentTTL)
	if err != nil {
		log.Printf("issue respondent token: %v", err)
		renderLogin(c, http.StatusInternalServerError, msgGeneric, cpf)
		return
	}
	middleware.SetSessionCookie(c, middleware.RespondentCookie, token, middleware.RespondentTTL)
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/pesquisa/%d", r.ID))
}

// GET /pesquisa/:id
func (sc *SurveyController) ShowSurvey(c *gin.Context) {
	id := c.MustGet(middleware.CtxRespondentID).(uint)

	r, err := sc.survey.Respondent(c.Request.Context(), id)
	if err != nil {
		var ne *services.NotEligibleError
		if errors.As(err, &ne) {
			middleware.ClearSessionCookie(c, middleware.RespondentCookie)
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		log.Printf("load respondent %d: %v", id, err)
		renderLogin(c, http.StatusInternalServerError, msgGeneric, "")
		return
	}
	if r.Completed {
		middleware.ClearSessionCookie(c, middleware.RespondentCookie)
		renderLogin(c, http.StatusConflict, msgAlreadyResponded, "")
		return
	}

	sc.renderSurvey(c, http.StatusOK, id, nil, "")
}

// POST /pesquisa/:id
func (sc *SurveyController) SubmitSurvey(c *gin.Context) {
	id := c.MustGet(middleware.CtxRespondentID).(uint)

	answers := make([]string, services.SlotCount)
	for i := range answers {
		answers[i] = c.PostForm(fmt.Sprintf("resposta%d", i+1))
	}

	_, err := sc.survey.Submit(c.Request.Context(), id, answers)
	if err != nil {
		var ve *services.ValidationError
		var ne *services.NotEligibleError
		switch {
		case errors.As(err, &ve):
			sc.renderSurvey(c, http.StatusUnprocessableEntity, id, answers, ve.Message)
		case services.AlreadyResponded(err):
			middleware.ClearSessionCookie(c, middleware.RespondentCookie)
			renderLogin(c, http.StatusConflict, msgAlreadyResponded, "")
		case errors.As(err, &ne):
			middleware.ClearSessionCookie(c, middleware.RespondentCookie)
			renderLogin(c, http.StatusNotFound, msgInvalidLogin, "")
		default:
			log.Printf("save response for respondent %d: %v", id, err)
			sc.renderSurvey(c, http.StatusInternalServerError, id, answers, msgGeneric)
		}
		return
	}

	middleware.ClearSessionCookie(c, middleware.RespondentCookie)
	c.Redirect(http.StatusSeeOther, "/pesquisa-concluida")
}

// GET /pesquisa-concluida
func ThankYou(c *gin.Context) {
	c.HTML(http.StatusOK, "pesquisa_concluida.html", gin.H{})
}

func (sc *SurveyController) renderSurvey(c *gin.Context, status int, id uint, answers []string, flash string) {
	questions, err := sc.catalog.Questions(c.Request.Context())
	if err != nil {
		log.Printf("load catalog: %v", err)
		if flash == "" {
			flash = msgGeneric
		}
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}
	}

	c.HTML(status, "pesquisa.html", gin.H{
		"RespondentID": id,
		"Questions":    questions,
		"Answers":      padAnswers(answers, questions),
		"Flash":        flash,
	})
}

// padAnswers makes sure the template can index one answer per question.
func padAnswers(answers []string, questions []models.Question) []string {
	n := len(questions)
	if n < services.SlotCount {
		n = services.SlotCount
	}
	out := make([]string, n)
	copy(out, answers)
	return out
}

func renderLogin(c *gin.Context, status int, msg, cpf string) {
	c.HTML(status, "login.html", gin.H{"Error": msg, "CPF": cpf})
}
