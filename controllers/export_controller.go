package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/vnkhanh/pesquisa-clima/services"
	"github.com/vnkhanh/pesquisa-clima/web"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /admin/export?format=xlsx|csv
func (ac *AdminController) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		c.String(http.StatusBadRequest, "Formato inválido: use xlsx ou csv")
		return
	}

	rep, err := ac.reports.Report(c.Request.Context())
	if err != nil {
		log.Printf("export report: %v", err)
		c.String(http.StatusInternalServerError, msgGeneric)
		return
	}

	filename := fmt.Sprintf("respostas_%s.%s", time.Now().Format("20060102_1504"), format)
	if format == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Status(http.StatusOK)
		if err := writeCSV(c.Writer, rep); err != nil {
			log.Printf("write csv export: %v", err)
		}
		return
	}

	f, err := buildWorkbook(rep)
	if err != nil {
		log.Printf("build xlsx export: %v", err)
		c.String(http.StatusInternalServerError, msgGeneric)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("write xlsx export: %v", err)
	}
}

func exportHeader(rep *services.Report) []string {
	header := []string{"ID", "Data"}
	for i := 0; i < services.SlotCount; i++ {
		label := "P" + strconv.Itoa(i+1)
		if i < len(rep.Questions) {
			label += " - " + rep.Questions[i].Text
		}
		header = append(header, label)
	}
	return header
}

func exportRecord(r services.ResponseRow) []string {
	rec := []string{strconv.FormatUint(uint64(r.ID), 10), web.FormatDateTime(r.SubmittedAt)}
	return append(rec, r.Answers[:]...)
}

func writeCSV(w io.Writer, rep *services.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader(rep)); err != nil {
		return err
	}
	for _, r := range rep.Rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// buildWorkbook lays out one sheet with every response and one summary sheet with
// averages and option tallies.
func buildWorkbook(rep *services.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	const responsesSheet, summarySheet = "Respostas", "Resumo"
	if err := f.SetSheetName("Sheet1", responsesSheet); err != nil {
		return nil, err
	}

	if err := setRow(f, responsesSheet, 1, toCells(exportHeader(rep))); err != nil {
		return nil, err
	}
	for i, r := range rep.Rows {
		if err := setRow(f, responsesSheet, i+2, toCells(exportRecord(r))); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	row := 1
	if err := setRow(f, summarySheet, row, []interface{}{"Pergunta", "Média"}); err != nil {
		return nil, err
	}
	for i, a := range rep.Averages {
		row++
		var v interface{} = 0
		if a.Valid {
			v = a.Value
		}
		if err := setRow(f, summarySheet, row, []interface{}{"P" + strconv.Itoa(i+1), v}); err != nil {
			return nil, err
		}
	}

	for _, cd := range rep.Charts {
		row += 2
		if err := setRow(f, summarySheet, row, []interface{}{cd.QuestionText, "Respostas"}); err != nil {
			return nil, err
		}
		for _, t := range cd.Tallies {
			row++
			if err := setRow(f, summarySheet, row, []interface{}{t.Label, t.Count}); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
