package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/service"
	"github.com/imanoela-sketch/apphistomed/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentLogController struct {
	StudentLogService *service.StudentLogService
}

func NewStudentLogController(studentLogService *service.StudentLogService) *StudentLogController {
	return &StudentLogController{StudentLogService: studentLogService}
}

// List godoc
// @Summary Histórico de acessos
// @Description Lista os acessos dos estudantes, mais recente primeiro. Somente administrador.
// @Tags Acessos
// @Produce  json
// @Security BearerAuth
// @Param   search query string false "Filtro por nome ou e-mail"
// @Success 200 {object} util.Response{data=[]model.StudentLog}
// @Router /api/admin/logs [get]
func (c *StudentLogController) List(ctx *gin.Context) {
	logs, err := c.StudentLogService.List(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, logs)
}

// Clear godoc
// @Summary Limpar histórico de acessos
// @Tags Acessos
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response "Histórico limpo"
// @Router /api/admin/logs [delete]
func (c *StudentLogController) Clear(ctx *gin.Context) {
	if err := c.StudentLogService.Clear(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ExportCSV godoc
// @Summary Exportar histórico como CSV
// @Tags Acessos
// @Produce  text/csv
// @Security BearerAuth
// @Success 200 {file} file "historico_acessos_histomed.csv"
// @Router /api/admin/logs/export [get]
func (c *StudentLogController) ExportCSV(ctx *gin.Context) {
	data, err := c.StudentLogService.ExportCSV(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", `attachment; filename="historico_acessos_histomed.csv"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX godoc
// @Summary Exportar histórico como planilha Excel
// @Tags Acessos
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "historico_acessos_histomed.xlsx"
// @Router /api/admin/logs/export-xlsx [get]
func (c *StudentLogController) ExportXLSX(ctx *gin.Context) {
	data, err := c.StudentLogService.ExportXLSX(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	filename := fmt.Sprintf("historico_acessos_histomed_%s.xlsx", time.Now().Format(util.DateFormatFile))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
