package handler

import (
	"net/http"

	"github.com/KenthE710/antonella-management-server/internal/dto"
	"github.com/KenthE710/antonella-management-server/internal/service"

	"github.com/gin-gonic/gin"
)

type ServiciosRealizadosHandler struct{ svc service.ServicioRealizadoService }

func NewServiciosRealizadosHandler(svc service.ServicioRealizadoService) *ServiciosRealizadosHandler {
	return &ServiciosRealizadosHandler{svc: svc}
}

// Registrar records a performed service and draws the used products from
// stock. Stock failures answer 409 and leave nothing written.
func (h *ServiciosRealizadosHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarServicioRealizadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosRealizadosHandler) Listar(c *gin.Context) {
	var filter dto.ServicioRealizadoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosRealizadosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosRealizadosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarServicioRealizadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ServiciosRealizadosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ServiciosRealizadosHandler) AgregarProducto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ProductoUsoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarProducto(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ServiciosRealizadosHandler) QuitarProducto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	consumoID, ok := parseID(c, "consumo_id")
	if !ok {
		return
	}
	if err := h.svc.QuitarProducto(c.Request.Context(), id, consumoID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
