package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/retail-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/retail-dashboard-api/pkg/log"
)

// Tipos de cron job aceitos em /v1/cron/run/:type
const (
	CronJobTypeMetaAdSpend = "meta-ad-spend"
	CronJobTypeAll         = "all"
)

// SyncJob é um job de ingestão que pode ser disparado manualmente
type SyncJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os jobs que podem ser executados manualmente
type CronJobServices struct {
	AdSpendSync SyncJob
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		var started bool
		switch cronType {
		case CronJobTypeMetaAdSpend, CronJobTypeAll:
			if services.AdSpendSync == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização do Meta não disponível", nil)
				return
			}
			started = services.AdSpendSync.TriggerManualSync()
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: meta-ad-spend, all", nil)
			return
		}

		logger.WithFields(log.Fields{
			"type":    cronType,
			"started": started,
		}).Info("cron: execução manual solicitada")

		message := "Cron job iniciada com sucesso"
		if !started {
			message = "Cron job já está em execução"
		}

		apiErrors.WriteSuccess(w, http.StatusAccepted, map[string]any{
			"message": message,
			"type":    cronType,
			"started": started,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.AdSpendSync != nil {
			status[CronJobTypeMetaAdSpend] = services.AdSpendSync.GetStatus()
		}

		apiErrors.WriteSuccess(w, http.StatusOK, status)
	}
}
