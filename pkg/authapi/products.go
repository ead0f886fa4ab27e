package authapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"katydid-common-auth/pkg/products"
)

// ProductHandler 商品目录的 HTTP 处理器（全部路由都在会话校验之后）
type ProductHandler struct {
	svc *products.Service
	log *zap.Logger
}

// NewProductHandler 创建商品处理器
func NewProductHandler(svc *products.Service, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{svc: svc, log: log}
}

// List 分页返回商品列表
//
// page 查询参数从 1 开始；非数字或越界的页码回退到第 1 页
//
//	@Summary		商品列表
//	@Tags			productos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			page	query		int	false	"页码（默认 1）"
//	@Success		200		{object}	products.Page
//	@Failure		401		{object}	Response
//	@Router			/productos [get]
func (h *ProductHandler) List(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}

	result, err := h.svc.ListPage(c.Request.Context(), page)
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msgInternal})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Create 创建商品
//
//	@Summary		创建商品
//	@Tags			productos
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		products.ProductRequest	true	"商品数据"
//	@Success		200		{object}	products.Product
//	@Failure		400		{object}	Response
//	@Router			/productos [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req products.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}

	product, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Update 编辑商品
//
//	@Summary		编辑商品
//	@Tags			productos
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int						true	"商品 ID"
//	@Param			request	body		products.ProductRequest	true	"商品数据"
//	@Success		200		{object}	products.Product
//	@Failure		404		{object}	Response
//	@Router			/productos/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}
	var req products.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}

	product, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete 删除商品
//
//	@Summary		删除商品
//	@Tags			productos
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"商品 ID"
//	@Success		200	{object}	Response
//	@Failure		404	{object}	Response
//	@Router			/productos/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Message: msgBadPayload})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: msgProductDeleted})
}

// respondError 把商品服务的错误映射为 HTTP 响应
func (h *ProductHandler) respondError(c *gin.Context, err error) {
	var vf *products.ValidationFailed
	switch {
	case errors.As(err, &vf):
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: msgInvalidFields,
			Errors:  fromFieldErrors(vf.Errors),
		})
	case errors.Is(err, products.ErrProductNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Message: msgProductNotFound})
	default:
		h.log.Error("product operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: msgInternal})
	}
}
