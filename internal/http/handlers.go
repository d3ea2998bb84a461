package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"bloodconnect/internal/cart"
	"bloodconnect/internal/domain"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/search"
	"bloodconnect/internal/service"
)

type Server struct {
	engine    *gin.Engine
	logger    *zap.Logger
	auth      *service.AuthService
	donations *service.DonationService
	medicines *service.MedicineService
	images    *service.ImageService
	carts     *cart.Store
}

func NewServer(logger *zap.Logger, auth *service.AuthService, donations *service.DonationService,
	medicines *service.MedicineService, images *service.ImageService, carts *cart.Store) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	s := &Server{
		engine:    r,
		logger:    logger,
		auth:      auth,
		donations: donations,
		medicines: medicines,
		images:    images,
		carts:     carts,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// ServeFiles раздаёт каталог загруженных файлов по заданному префиксу
func (s *Server) ServeFiles(urlPrefix, dir string) {
	s.engine.Static(urlPrefix, dir)
}

func (s *Server) registerRoutes() {
	s.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "bloodconnect"})
	})
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/register", s.register)
		auth.POST("/login", s.login)
		auth.POST("/logout", s.logout)
		auth.GET("/me", s.me)

		donations := v1.Group("/donations")
		donations.GET("", s.listDonations)
		donations.GET("/search", s.searchDonors)
		donations.POST("", s.requireAuth, s.scheduleDonation)

		medicines := v1.Group("/medicines")
		medicines.GET("", s.listMedicines)
		medicines.GET("/search", s.searchMedicines)
		medicines.GET(":id", s.getMedicine)

		v1.GET("/images", s.listImages)

		carts := v1.Group("/cart", s.cartSession)
		carts.GET("", s.getCart)
		carts.POST("/items", s.addCartItem)
		carts.DELETE("/items/:id", s.removeCartItem)
		carts.POST("/checkout", s.checkout)

		admin := v1.Group("/admin", s.requireAdmin)
		admin.GET("/medicines", s.listMedicines)
		admin.POST("/medicines", s.createMedicine)
		admin.PUT("/medicines/:id", s.updateMedicine)
		admin.DELETE("/medicines/:id", s.deleteMedicine)
		admin.POST("/images", s.uploadImage)
	}
}

// Auth handlers
type registerReq struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param input body registerReq true "Registration form"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (s *Server) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, token, err := s.auth.Register(c, service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusCreated, u)
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} domain.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, token, err := s.auth.Login(c, req.Email, req.Password)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusOK, u)
}

// @Summary Logout
// @Tags auth
// @Success 204
// @Router /auth/logout [post]
func (s *Server) logout(c *gin.Context) {
	if err := s.auth.Logout(c, sessionToken(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (s *Server) me(c *gin.Context) {
	sess, err := s.auth.CurrentUser(c, sessionToken(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": sess.UserID, "email": sess.Email})
}

// Donation handlers
type scheduleDonationReq struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	BloodType         string `json:"blood_type"`
	DonationDate      string `json:"donation_date"`
	MedicalConditions string `json:"medical_conditions"`
}

// @Summary Schedule a donation
// @Tags donations
// @Accept json
// @Produce json
// @Param input body scheduleDonationReq true "Donation form"
// @Success 201 {object} domain.Donation
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /donations [post]
func (s *Server) scheduleDonation(c *gin.Context) {
	var req scheduleDonationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	date, err := parseDate(req.DonationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation date"})
		return
	}
	sess := currentSession(c)
	d, err := s.donations.Schedule(c, sess.UserID, domain.Donation{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		BloodType:         req.BloodType,
		DonationDate:      date,
		MedicalConditions: req.MedicalConditions,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, d)
}

// @Summary List donations
// @Tags donations
// @Produce json
// @Success 200 {array} domain.Donation
// @Router /donations [get]
func (s *Server) listDonations(c *gin.Context) {
	list, err := s.donations.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Search donors
// @Tags donations
// @Produce json
// @Param blood_type query string false "Blood type or All Types"
// @Param q query string false "Donor name contains"
// @Success 200 {object} map[string]interface{}
// @Router /donations/search [get]
func (s *Server) searchDonors(c *gin.Context) {
	criteria := search.DonorCriteria{
		BloodType: c.DefaultQuery("blood_type", search.AllTypes),
		// запрос передаётся как введён, без обрезки пробелов
		Query: c.Query("q"),
	}
	donors, err := s.donations.SearchDonors(c, criteria)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(donors), "donors": donors})
}

// Medicine handlers

// @Summary List medicines
// @Tags medicines
// @Produce json
// @Success 200 {array} domain.Medicine
// @Router /medicines [get]
func (s *Server) listMedicines(c *gin.Context) {
	list, err := s.medicines.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Search medicines
// @Tags medicines
// @Produce json
// @Param q query string false "Name contains"
// @Success 200 {array} domain.Medicine
// @Router /medicines/search [get]
func (s *Server) searchMedicines(c *gin.Context) {
	list, err := s.medicines.Search(c, c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get medicine by id
// @Tags medicines
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} domain.Medicine
// @Failure 404 {object} map[string]string
// @Router /medicines/{id} [get]
func (s *Server) getMedicine(c *gin.Context) {
	m, err := s.medicines.GetByID(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, m)
}

// medicineForm разбирает multipart-форму админки; файл изображения
// опционален, при наличии он загружается и подменяет image_url
func (s *Server) medicineForm(c *gin.Context) (*domain.Medicine, bool) {
	price, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return nil, false
	}
	stock, err := strconv.ParseInt(c.PostForm("stock"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock"})
		return nil, false
	}

	imageURL := c.PostForm("image_url")
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
			return nil, false
		}
		defer f.Close()
		img, err := s.images.Upload(c, fh.Filename, f)
		if err != nil {
			c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
			return nil, false
		}
		imageURL = img.URL
	}

	return &domain.Medicine{
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       price,
		Stock:       stock,
		ImageURL:    imageURL,
	}, true
}

// @Summary Create medicine
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param name formData string true "Name"
// @Param description formData string true "Description"
// @Param price formData number true "Price"
// @Param stock formData integer true "Stock"
// @Param image formData file false "Image"
// @Success 201 {object} domain.Medicine
// @Failure 400 {object} map[string]string
// @Router /admin/medicines [post]
func (s *Server) createMedicine(c *gin.Context) {
	m, ok := s.medicineForm(c)
	if !ok {
		return
	}
	created, err := s.medicines.Create(c, *m)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary Update medicine
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} domain.Medicine
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/medicines/{id} [put]
func (s *Server) updateMedicine(c *gin.Context) {
	m, ok := s.medicineForm(c)
	if !ok {
		return
	}
	m.ID = c.Param("id")
	updated, err := s.medicines.Update(c, *m)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete medicine
// @Tags admin
// @Param id path string true "Medicine ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /admin/medicines/{id} [delete]
func (s *Server) deleteMedicine(c *gin.Context) {
	if err := s.medicines.Delete(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Image handlers

// @Summary List images or find one by name
// @Tags images
// @Produce json
// @Param name query string false "Exact file name"
// @Success 200 {array} domain.Image
// @Failure 404 {object} map[string]string
// @Router /images [get]
func (s *Server) listImages(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		img, err := s.images.GetByName(c, name)
		if err != nil {
			c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, img)
		return
	}
	list, err := s.images.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Upload image
// @Tags admin
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image"
// @Success 201 {object} domain.Image
// @Failure 400 {object} map[string]string
// @Router /admin/images [post]
func (s *Server) uploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image"})
		return
	}
	defer f.Close()
	img, err := s.images.Upload(c, fh.Filename, f)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, img)
}

// Cart handlers
type addCartItemReq struct {
	MedicineID string `json:"medicine_id"`
}

// @Summary Add item to cart
// @Tags cart
// @Accept json
// @Produce json
// @Param input body addCartItemReq true "Item"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	m, err := s.medicines.GetByID(c, req.MedicineID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	s.carts.AddItem(c.GetString(ctxCartKey), *m)
	s.cartView(c)
}

// @Summary Remove one unit from cart
// @Tags cart
// @Produce json
// @Param id path string true "Medicine ID"
// @Success 200 {object} map[string]interface{}
// @Router /cart/items/{id} [delete]
func (s *Server) removeCartItem(c *gin.Context) {
	s.carts.RemoveItem(c.GetString(ctxCartKey), c.Param("id"))
	s.cartView(c)
}

// @Summary Get cart
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cart [get]
func (s *Server) getCart(c *gin.Context) {
	s.cartView(c)
}

// @Summary Checkout
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]string
// @Router /cart/checkout [post]
func (s *Server) checkout(c *gin.Context) {
	// заказ нигде не сохраняется: корзина очищается и это всегда успех
	s.carts.Checkout(c.GetString(ctxCartKey))
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Your order has been placed successfully.",
	})
}

func (s *Server) cartView(c *gin.Context) {
	lines, total := s.carts.Snapshot(c.GetString(ctxCartKey))
	c.JSON(http.StatusOK, gin.H{
		"items": lines,
		"total": cart.RoundPrice(total),
	})
}

func setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
}

// parseDate принимает дату формы как YYYY-MM-DD или полный RFC3339
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func mapErrorToStatus(err error) int {
	switch err {
	case service.ErrInvalidInput:
		return http.StatusBadRequest
	case service.ErrInvalidBloodType:
		return http.StatusBadRequest
	case service.ErrInvalidEmail:
		return http.StatusBadRequest
	case service.ErrPasswordMismatch:
		return http.StatusBadRequest
	case service.ErrUserNotFound:
		return http.StatusUnauthorized
	case service.ErrWrongPassword:
		return http.StatusUnauthorized
	case service.ErrEmailTaken:
		return http.StatusConflict
	case repository.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
