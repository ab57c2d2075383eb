package http

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campus-dashboard/internal/api"
	"campus-dashboard/internal/cart"
	"campus-dashboard/internal/domain"
	"campus-dashboard/internal/guard"
	"campus-dashboard/internal/mirror"
	"campus-dashboard/internal/routes"
	"campus-dashboard/internal/session"
)

// Handler wires the dashboard surface to the session store, the guard, and
// the backend API client.
type Handler struct {
	sessions *session.Store
	carts    *cart.Store
	backend  *api.Client
	guard    *guard.Guard
	table    *routes.Table
	mirror   mirror.Manager
	logger   *logrus.Logger
}

func NewHandler(sessions *session.Store, carts *cart.Store, backend *api.Client, g *guard.Guard, table *routes.Table, mediaMirror mirror.Manager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		sessions: sessions,
		carts:    carts,
		backend:  backend,
		guard:    g,
		table:    table,
		mirror:   mediaMirror,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/api/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	sess := router.Group("/api/session")
	{
		sess.GET("", h.getSession)
		sess.POST("/login", h.login)
		sess.POST("/register", h.register)
		sess.POST("/logout", h.logout)
	}

	// The dashboard route surface: every navigation runs through the guard.
	pages := router.Group("", h.guardMiddleware())
	for _, route := range h.table.All() {
		pages.GET(route.Path, h.showRoute)
	}

	authed := router.Group("/api", h.requireSession())
	{
		authed.GET("/catalog/categories", h.categories)
		authed.POST("/catalog/categories", h.createCategory)
		authed.GET("/catalog/products", h.products)
		authed.POST("/catalog/products", h.createProduct)
		authed.GET("/orders", h.orders)
		authed.POST("/orders/from-cart", h.orderFromCart)
		authed.GET("/storefront/stores", h.stores)
		authed.GET("/storefront/products", h.storefrontProducts)
		authed.GET("/wallet", h.wallet)
		authed.GET("/analytics/overview", h.analyticsOverview)
		authed.GET("/community/posts", h.posts)
		authed.POST("/community/posts", h.createPost)
		authed.GET("/focus/videos", h.focusVideos)
		authed.POST("/focus/videos", h.uploadFocusVideo)

		authed.GET("/cart", h.cartItems)
		authed.POST("/cart/items", h.cartAdd)
		authed.PUT("/cart/items/:id", h.cartSetQty)
		authed.DELETE("/cart/items/:id", h.cartRemove)
		authed.POST("/cart/clear", h.cartClear)

		admin := authed.Group("", h.requireRole(domain.RoleAdmin))
		{
			admin.GET("/users", h.users)
			admin.GET("/terminal", h.terminalHistory)
			admin.POST("/terminal", h.runTerminal)
			admin.GET("/media", h.mirroredMedia)
			admin.DELETE("/media", h.purgeMirroredMedia)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) guardMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := h.guard.Check(c.Request.Context(), c.Request.URL.RequestURI())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		switch decision.Kind {
		case guard.Proceed:
			c.Next()
		case guard.RedirectToLogin, guard.Redirect:
			c.Redirect(http.StatusFound, decision.Target)
			c.Abort()
		}
	}
}

// requireSession gates the passthrough API: bootstrap once, then demand an
// authenticated session.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.sessions.Bootstrap(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !h.sessions.Snapshot().IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.Next()
	}
}

func (h *Handler) requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.sessions.Snapshot().Role() != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

type routeResponse struct {
	Path   string        `json:"path"`
	Name   string        `json:"name"`
	Label  string        `json:"label,omitempty"`
	Icon   string        `json:"icon,omitempty"`
	Public bool          `json:"public"`
	Roles  []domain.Role `json:"roles,omitempty"`
}

func (h *Handler) showRoute(c *gin.Context) {
	route := h.table.Match(c.Request.URL.Path)
	snap := h.sessions.Snapshot()

	menu := h.table.Menu(snap.Role())
	menuResp := make([]routeResponse, len(menu))
	for i, r := range menu {
		menuResp[i] = routeToResponse(r)
	}

	resp := gin.H{
		"route": routeToResponse(route),
		"menu":  menuResp,
	}
	if snap.User != nil {
		resp["user"] = snap.User
	}
	c.JSON(http.StatusOK, resp)
}

func routeToResponse(r routes.Route) routeResponse {
	return routeResponse{
		Path:   r.Path,
		Name:   r.Name,
		Label:  r.Meta.Label,
		Icon:   r.Meta.Icon,
		Public: r.Meta.Public,
		Roles:  r.Meta.Roles,
	}
}

func (h *Handler) getSession(c *gin.Context) {
	if err := h.sessions.Bootstrap(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	snap := h.sessions.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"user":          snap.User,
		"expires_at":    snap.ExpiresAt,
		"initialized":   snap.Initialized,
		"authenticated": snap.IsAuthenticated(),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.sessions.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *Handler) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

func (h *Handler) categories(c *gin.Context) {
	categories, err := h.backend.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) createCategory(c *gin.Context) {
	var input api.Category
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.backend.CreateCategory(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) products(c *gin.Context) {
	products, err := h.backend.Products(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var input api.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.backend.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) orders(c *gin.Context) {
	orders, err := h.backend.Orders(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type orderFromCartRequest struct {
	Note            string `json:"note"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

// orderFromCart turns the local cart into a backend order and clears the
// cart once the order is accepted.
func (h *Handler) orderFromCart(c *gin.Context) {
	var req orderFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := h.carts.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		return
	}

	orderItems := make([]api.CreateOrderItem, len(items))
	for i, item := range items {
		orderItems[i] = api.CreateOrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Qty,
		}
	}

	order, err := h.backend.CreateOrder(c.Request.Context(), api.CreateOrderRequest{
		Items:           orderItems,
		Note:            req.Note,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.carts.Clear(c.Request.Context())
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) stores(c *gin.Context) {
	stores, err := h.backend.Stores(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stores)
}

func (h *Handler) storefrontProducts(c *gin.Context) {
	products, err := h.backend.StorefrontProducts(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) wallet(c *gin.Context) {
	overview, err := h.backend.WalletOverview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) analyticsOverview(c *gin.Context) {
	overview, err := h.backend.AnalyticsOverview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *Handler) posts(c *gin.Context) {
	posts, err := h.backend.Posts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handler) createPost(c *gin.Context) {
	req := api.CreatePostRequest{
		Title:      c.PostForm("title"),
		Content:    c.PostForm("content"),
		Visibility: c.PostForm("visibility"),
	}

	form, err := c.MultipartForm()
	if err == nil && form != nil {
		media, err := h.collectUploads(form.File["media_files"])
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Media = media
	}

	post, err := h.backend.CreatePost(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *Handler) focusVideos(c *gin.Context) {
	videos, err := h.backend.FocusVideos(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *Handler) uploadFocusVideo(c *gin.Context) {
	videoHeader, err := c.FormFile("video_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_file is required"})
		return
	}

	videoParts, err := h.collectUploads([]*multipart.FileHeader{videoHeader})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := api.UploadVideoRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Video:       videoParts[0],
	}
	if coverHeader, err := c.FormFile("cover_file"); err == nil {
		coverParts, err := h.collectUploads([]*multipart.FileHeader{coverHeader})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Cover = &coverParts[0]
	}

	video, err := h.backend.UploadFocusVideo(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, video)
}

// collectUploads buffers multipart files so they can be both forwarded to
// the backend and handed to the media mirror.
func (h *Handler) collectUploads(headers []*multipart.FileHeader) ([]api.MultipartFile, error) {
	files := make([]api.MultipartFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(f)
		closeErr := f.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}

		if h.mirror != nil {
			if err := h.mirror.Enqueue(mirror.Item{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        body,
			}); err != nil {
				h.logger.WithError(err).Warn("mirror enqueue")
			}
		}

		files = append(files, api.MultipartFile{
			Name:   header.Filename,
			Reader: bytes.NewReader(body),
		})
	}
	return files, nil
}

func (h *Handler) users(c *gin.Context) {
	users, err := h.backend.Users(c.Request.Context(), queryParams(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) terminalHistory(c *gin.Context) {
	history, err := h.backend.TerminalHistory(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

type terminalRequest struct {
	Command string `json:"command" binding:"required"`
}

func (h *Handler) runTerminal(c *gin.Context) {
	var req terminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.backend.RunTerminalCommand(c.Request.Context(), req.Command)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) mirroredMedia(c *gin.Context) {
	if h.mirror == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media mirror disabled"})
		return
	}
	objects, err := h.mirror.Objects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"objects": objects})
}

func (h *Handler) purgeMirroredMedia(c *gin.Context) {
	if h.mirror == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "media mirror disabled"})
		return
	}
	if err := h.mirror.Purge(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

func (h *Handler) cartItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": h.carts.Items(),
		"total": h.carts.Total(),
		"count": h.carts.Count(),
	})
}

func (h *Handler) cartAdd(c *gin.Context) {
	var item domain.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if item.ProductID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	h.carts.Add(c.Request.Context(), item)
	h.cartItems(c)
}

type cartQtyRequest struct {
	Qty int `json:"qty" binding:"required"`
}

func (h *Handler) cartSetQty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	var req cartQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.carts.SetQty(c.Request.Context(), id, req.Qty)
	h.cartItems(c)
}

func (h *Handler) cartRemove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	h.carts.Remove(c.Request.Context(), id)
	h.cartItems(c)
}

func (h *Handler) cartClear(c *gin.Context) {
	h.carts.Clear(c.Request.Context())
	h.cartItems(c)
}

// respondError maps backend failures onto the gateway surface. An expired
// session becomes a login redirect carrying the current path, matching how
// the rest of the app reacts to the backend's redirect-style status.
func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, api.ErrSessionExpired) {
		target := "/login?redirect=" + url.QueryEscape(c.Request.URL.Path)
		c.Redirect(http.StatusFound, target)
		c.Abort()
		return
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Detail})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}

func queryParams(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	if len(values) == 0 {
		return nil
	}
	params := make(map[string]string, len(values))
	for key := range values {
		params[key] = values.Get(key)
	}
	return params
}
