package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Export formats.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatYAML = "yaml"
)

var csvHeader = []string{"filer_ein", "filer_depth", "grant_ein", "grant_depth", "grant_amt", "tax_year"}

func (h *APIHandlers) handleExport(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = formatJSON
	}
	if format != formatJSON && format != formatCSV && format != formatYAML {
		writeError(w, http.StatusBadRequest, "format must be one of json, csv, yaml")
		return
	}

	params := paramsFromQuery(r.URL.Query()).toParams(h.defaults)
	snap, err := h.service.Network(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to filter network")
		return
	}
	resp := newNetworkResponse(snap)
	resp.Nodes, resp.Links = nil, nil

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName(resp.Root, format)))
	switch format {
	case formatCSV:
		w.Header().Set("Content-Type", "text/csv")
		w.WriteHeader(http.StatusOK)
		if err := writeGrantsCSV(w, resp); err != nil {
			h.logger.Error("failed to write csv export", "error", err)
		}
	case formatYAML:
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			h.logger.Error("failed to write yaml export", "error", err)
		}
		_ = enc.Close()
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			h.logger.Error("failed to write json export", "error", err)
		}
	}
}

func writeGrantsCSV(w http.ResponseWriter, resp networkResponse) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, g := range resp.Grants {
		row := []string{
			g.FilerEIN,
			strconv.Itoa(resp.Depths[g.FilerEIN]),
			g.GrantEIN,
			strconv.Itoa(resp.Depths[g.GrantEIN]),
			strconv.FormatFloat(g.Amount, 'f', -1, 64),
			strconv.Itoa(g.TaxYear),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
