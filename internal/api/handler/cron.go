package handler

import (
	"encoding/json"
	"net/http"

	"github.com/vfg2006/sales-manager-api/internal/scheduler"
)

// RunCronJob dispara a sincronização de snapshots fora do horário agendado
func RunCronJob(service *scheduler.ReportSnapshotSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		service.RunNow()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Sincronização de snapshots iniciada",
		})
	}
}

// GetCronStatus retorna o estado atual do agendador de snapshots
func GetCronStatus(service *scheduler.ReportSnapshotSyncService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.Status())
	}
}
