package httpserver

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/carousel"
	"storefront/internal/domain"
	"storefront/internal/eventloop"
	"storefront/internal/render"
	"storefront/internal/session"
)

type handlers struct {
	loop    *eventloop.Loop
	session *session.Session
	logger  *zap.Logger
	tmpl    *template.Template
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// quantityRequest bounds delta well inside int range; the engine saturates
// anyway.
type quantityRequest struct {
	Delta *int `json:"delta" binding:"required,min=-10000,max=10000"`
}

type geometryRequest struct {
	Viewport float64 `json:"viewport" binding:"gte=0"`
	Content  float64 `json:"content" binding:"gte=0"`
}

type pointerRequest struct {
	Region string `json:"region" binding:"required,oneof=track controls"`
	Action string `json:"action" binding:"required,oneof=enter leave"`
}

type dragRequest struct {
	Phase string  `json:"phase" binding:"required,oneof=start move end"`
	X     float64 `json:"x"`
}

type scrollRequest struct {
	Offset float64 `json:"offset"`
}

// run executes fn on the event loop and writes the page it leaves behind.
func (h *handlers) run(c *gin.Context, fn func(ctx context.Context) error) {
	var (
		err  error
		page render.Page
	)
	// Once queued the closure runs even if the client goes away, so the
	// mutation and its save must not see the request's cancellation.
	ctx := context.WithoutCancel(c.Request.Context())
	if loopErr := h.loop.Do(c.Request.Context(), func() {
		if err = fn(ctx); err == nil {
			page = h.session.Page()
		}
	}); loopErr != nil {
		writeError(c, loopErr)
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, eventloop.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "page session unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload", "details": err.Error()})
}

func (h *handlers) index(c *gin.Context) {
	var page render.Page
	if err := h.loop.Do(c.Request.Context(), func() { page = h.session.Page() }); err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := render.Write(&buf, h.tmpl, page); err != nil {
		h.logger.Error("render page", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *handlers) page(c *gin.Context) {
	h.run(c, func(context.Context) error { return nil })
}

func (h *handlers) addToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.run(c, func(ctx context.Context) error {
		return h.session.AddToCart(ctx, req.ProductID)
	})
}

func (h *handlers) setQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	h.run(c, func(ctx context.Context) error {
		h.session.SetQuantity(ctx, id, *req.Delta)
		return nil
	})
}

func (h *handlers) removeFromCart(c *gin.Context) {
	id := c.Param("id")
	h.run(c, func(ctx context.Context) error {
		h.session.RemoveFromCart(ctx, id)
		return nil
	})
}

func (h *handlers) clearCart(c *gin.Context) {
	h.run(c, func(ctx context.Context) error {
		h.session.ClearCart(ctx)
		return nil
	})
}

func (h *handlers) checkout(c *gin.Context) {
	h.run(c, func(ctx context.Context) error {
		h.session.Checkout(ctx)
		return nil
	})
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	id := c.Param("id")
	h.run(c, func(ctx context.Context) error {
		_, err := h.session.ToggleWishlist(ctx, id)
		return err
	})
}

func (h *handlers) openQuickView(c *gin.Context) {
	id := c.Param("id")
	h.run(c, func(context.Context) error {
		return h.session.OpenQuickView(id)
	})
}

func (h *handlers) closeQuickView(c *gin.Context) {
	h.run(c, func(context.Context) error {
		h.session.CloseQuickView()
		return nil
	})
}

func (h *handlers) quickViewAdd(c *gin.Context) {
	h.run(c, func(ctx context.Context) error {
		return h.session.QuickViewAddToCart(ctx)
	})
}

// onCarousel runs fn against the named carousel on the event loop and writes
// its snapshot.
func (h *handlers) onCarousel(c *gin.Context, fn func(ctl *carousel.Controller) gin.H) {
	name := c.Param("name")
	var (
		found bool
		snap  carousel.Snapshot
		extra gin.H
	)
	if err := h.loop.Do(c.Request.Context(), func() {
		ctl, ok := h.session.Carousel(name)
		if !ok {
			return
		}
		found = true
		extra = fn(ctl)
		snap = ctl.Snapshot()
	}); err != nil {
		writeError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "carousel " + name + " not found"})
		return
	}
	body := gin.H{"carousel": snap}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func (h *handlers) carouselSnapshot(c *gin.Context) {
	h.onCarousel(c, func(*carousel.Controller) gin.H { return nil })
}

func (h *handlers) carouselMount(c *gin.Context) {
	var req geometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
		ctl.Mount(req.Viewport, req.Content)
		return nil
	})
}

func (h *handlers) carouselResize(c *gin.Context) {
	var req geometryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
		ctl.Resize(req.Viewport, req.Content)
		return nil
	})
}

func (h *handlers) carouselPointer(c *gin.Context) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	region := carousel.Track
	if req.Region == "controls" {
		region = carousel.Controls
	}
	h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
		if req.Action == "enter" {
			ctl.PointerEnter(region)
		} else {
			ctl.PointerLeave(region)
		}
		return nil
	})
}

func (h *handlers) carouselDrag(c *gin.Context) {
	var req dragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
		switch req.Phase {
		case "start":
			ctl.DragStart(req.X)
		case "move":
			return gin.H{"applied": ctl.DragMove(req.X)}
		case "end":
			ctl.DragEnd()
		}
		return nil
	})
}

func (h *handlers) carouselScroll(c *gin.Context) {
	var req scrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
		return gin.H{"applied": ctl.Scroll(req.Offset)}
	})
}

func (h *handlers) carouselStep(forward bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.onCarousel(c, func(ctl *carousel.Controller) gin.H {
			if forward {
				return gin.H{"applied": ctl.StepNext()}
			}
			return gin.H{"applied": ctl.StepPrev()}
		})
	}
}
