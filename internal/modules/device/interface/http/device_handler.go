package handler

import (
	"strconv"

	"midorisky/internal/modules/device/domain/entity"
	"midorisky/internal/modules/device/domain/repository"
	"midorisky/pkg/back"
	"midorisky/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type DeviceHandler struct {
	repo repository.DeviceRepository
}

func NewDeviceHandler(repo repository.DeviceRepository) *DeviceHandler {
	return &DeviceHandler{repo: repo}
}

func (h *DeviceHandler) List(c *gin.Context) {
	devices, err := h.repo.ListAll(c.Request.Context())
	back.Result(c, devices, err)
}

type createDeviceRequest struct {
	IoTType         string `json:"IoTType" binding:"required"`
	IoTSerialNumber string `json:"IoTSerialNumber" binding:"required"`
	PlotID          int64  `json:"PlotID"`
}

func (h *DeviceHandler) Create(c *gin.Context) {
	var req createDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, err.Error())
		return
	}

	device := &entity.IoTDevice{
		IoTType:         req.IoTType,
		IoTSerialNumber: req.IoTSerialNumber,
		IoTStatus:       entity.IoTStatusActive,
		PlotID:          req.PlotID,
	}
	err := h.repo.CreateDevice(c.Request.Context(), device)
	back.Result(c, device, err)
}

func (h *DeviceHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		back.Error(c, xerr.BadRequest, "invalid device id")
		return
	}

	err = h.repo.DeleteDevice(c.Request.Context(), id)
	back.Result(c, nil, err)
}
