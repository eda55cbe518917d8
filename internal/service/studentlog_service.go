package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/imanoela-sketch/apphistomed/internal/model"
	"github.com/imanoela-sketch/apphistomed/internal/repository"
	"github.com/imanoela-sketch/apphistomed/internal/util"
	"github.com/imanoela-sketch/apphistomed/pkg/logger"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// StudentLogService registra e consulta o histórico de acessos dos
// estudantes. Os registros ficam no KV store em ordem cronológica;
// as consultas devolvem do mais recente para o mais antigo.
type StudentLogService struct {
	store *repository.KVStore

	mu sync.Mutex
}

func NewStudentLogService(store *repository.KVStore) *StudentLogService {
	return &StudentLogService{store: store}
}

// Append acrescenta um acesso ao histórico. Falhas não podem derrubar o
// login do aluno, então só aparecem no log do servidor.
func (s *StudentLogService) Append(ctx context.Context, name, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var logs []model.StudentLog
	if err := s.store.Load(ctx, util.LoginLogsKey, &logs); err != nil {
		logger.Log.Warn("falha ao carregar histórico de acessos", zap.Error(err))
		return
	}
	logs = append(logs, model.StudentLog{
		Name:  name,
		Email: email,
		Date:  time.Now(),
	})
	if err := s.store.Save(ctx, util.LoginLogsKey, logs); err != nil {
		logger.Log.Warn("falha ao gravar histórico de acessos", zap.Error(err))
	}
}

// List devolve os acessos, mais recente primeiro, opcionalmente
// filtrados por nome ou e-mail (sem diferenciar maiúsculas).
func (s *StudentLogService) List(ctx context.Context, search string) ([]model.StudentLog, error) {
	var logs []model.StudentLog
	if err := s.store.Load(ctx, util.LoginLogsKey, &logs); err != nil {
		return nil, err
	}

	// inverte para mais recente primeiro
	out := make([]model.StudentLog, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		out = append(out, logs[i])
	}

	if search == "" {
		return out, nil
	}
	term := strings.ToLower(search)
	filtered := out[:0]
	for _, l := range out {
		if strings.Contains(strings.ToLower(l.Name), term) ||
			strings.Contains(strings.ToLower(l.Email), term) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

// Clear apaga todo o histórico.
func (s *StudentLogService) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, util.LoginLogsKey)
}

// ExportCSV gera o histórico completo como CSV com cabeçalho
// Data,Nome,Email e datas no formato brasileiro.
func (s *StudentLogService) ExportCSV(ctx context.Context) ([]byte, error) {
	logs, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Data", "Nome", "Email"}); err != nil {
		return nil, err
	}
	for _, l := range logs {
		if err := w.Write([]string{l.Date.Format(util.TimeFormat), l.Name, l.Email}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX gera o histórico como planilha Excel.
func (s *StudentLogService) ExportXLSX(ctx context.Context) ([]byte, error) {
	logs, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Acessos"
	f.SetSheetName(f.GetSheetName(0), sheet)
	for col, title := range []string{"Data", "Nome", "Email"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}
	for row, l := range logs {
		values := []interface{}{l.Date.Format(util.TimeFormat), l.Name, l.Email}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("falha ao gerar planilha: %w", err)
	}
	return buf.Bytes(), nil
}
