package repository

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/firestore"

	"loklagbe/internal/domain/entity"
	"loklagbe/pkg/errors"
)

const (
	usersCollection         = "users"
	worksCollection         = "worked"
	notificationsCollection = "notifications"
	complaintsCollection    = "complains"
	transactionsCollection  = "transactions"
	postedWorksCollection   = "postedWorks"
)

// Records mirror the stored documents with pointer fields so that a missing
// field can be told apart from a zero value. Each toEntity call fails when a
// field the domain depends on is absent.

type userRecord struct {
	FullName      *string        `firestore:"fullName"`
	Name          *string        `firestore:"name"`
	Email         *string        `firestore:"email"`
	Phone         *string        `firestore:"phone"`
	NID           *string        `firestore:"nid"`
	Bio           *string        `firestore:"bio"`
	Role          *string        `firestore:"role"`
	Rating        *float64       `firestore:"rating"`
	RatingCount   *int64         `firestore:"ratingCount"`
	Reviews       []reviewRecord `firestore:"reviews"`
	Verified      *bool          `firestore:"verified"`
	IsVerified    *bool          `firestore:"isVerified"`
	Wallet        *float64       `firestore:"wallet"`
	PostedWorks   []string       `firestore:"postedWorks"`
	AcceptedWorks []string       `firestore:"acceptedWorks"`
	CreatedAt     *time.Time     `firestore:"createdAt"`
}

type reviewRecord struct {
	ReviewerID string    `firestore:"reviewerId"`
	WorkID     string    `firestore:"workId,omitempty"`
	Rating     int64     `firestore:"rating"`
	Comment    string    `firestore:"comment"`
	Timestamp  time.Time `firestore:"timestamp"`
}

func (r *userRecord) toEntity(id string) (*entity.User, error) {
	if r.Email == nil || *r.Email == "" {
		return nil, fmt.Errorf("user %s: missing email", id)
	}

	user := &entity.User{
		ID:               id,
		FullName:         str(r.FullName),
		Email:            *r.Email,
		Phone:            str(r.Phone),
		NID:              str(r.NID),
		Bio:              str(r.Bio),
		Role:             entity.RoleUser,
		Rating:           entity.DefaultRating,
		Verified:         r.Verified != nil && *r.Verified,
		LegacyIsVerified: r.IsVerified,
		PostedWorks:      nonNil(r.PostedWorks),
		AcceptedWorks:    nonNil(r.AcceptedWorks),
		Reviews:          make([]entity.Review, 0, len(r.Reviews)),
	}
	if user.FullName == "" {
		user.FullName = str(r.Name)
	}
	if r.Role != nil && *r.Role != "" {
		user.Role = *r.Role
	}
	if r.Rating != nil {
		user.Rating = *r.Rating
	}
	if r.RatingCount != nil {
		if *r.RatingCount < 0 {
			return nil, fmt.Errorf("user %s: negative ratingCount", id)
		}
		user.RatingCount = int(*r.RatingCount)
	}
	if r.Wallet != nil {
		user.Wallet = *r.Wallet
	}
	if r.CreatedAt != nil {
		user.CreatedAt = *r.CreatedAt
	}
	for _, rv := range r.Reviews {
		user.Reviews = append(user.Reviews, entity.Review{
			ReviewerID: rv.ReviewerID,
			WorkID:     rv.WorkID,
			Rating:     int(rv.Rating),
			Comment:    rv.Comment,
			Timestamp:  rv.Timestamp,
		})
	}

	return user, nil
}

func userFields(u *entity.User) map[string]interface{} {
	return map[string]interface{}{
		"fullName":      u.FullName,
		"email":         u.Email,
		"phone":         u.Phone,
		"nid":           u.NID,
		"bio":           u.Bio,
		"role":          u.Role,
		"rating":        u.Rating,
		"ratingCount":   u.RatingCount,
		"reviews":       []interface{}{},
		"verified":      u.Verified,
		"wallet":        u.Wallet,
		"postedWorks":   []string{},
		"acceptedWorks": []string{},
		"createdAt":     u.CreatedAt,
	}
}

func newReviewRecord(rv entity.Review) reviewRecord {
	return reviewRecord{
		ReviewerID: rv.ReviewerID,
		WorkID:     rv.WorkID,
		Rating:     int64(rv.Rating),
		Comment:    rv.Comment,
		Timestamp:  rv.Timestamp,
	}
}

// postedWorkFields is the users/{uid}/postedWorks/{id} entry written when
// a work is posted. Transitions later merge a new status into it.
func postedWorkFields(workID string, postedAt time.Time) map[string]interface{} {
	return map[string]interface{}{
		"workId":   workID,
		"postedAt": postedAt,
		"status":   string(entity.WorkStatusActive),
	}
}

type workRecord struct {
	JobTitle      *string    `firestore:"jobTitle"`
	Description   *string    `firestore:"description"`
	Price         *float64   `firestore:"price"`
	Budget        *float64   `firestore:"budget"`
	Location      *string    `firestore:"location"`
	Category      *string    `firestore:"category"`
	StartDate     *time.Time `firestore:"startDate"`
	EndDate       *time.Time `firestore:"endDate"`
	CreatedAt     *time.Time `firestore:"createdAt"`
	UserID        *string    `firestore:"userId"`
	OwnerID       *string    `firestore:"ownerId"`
	AcceptedBy    *string    `firestore:"acceptedBy"`
	Status        *string    `firestore:"status"`
	TransactionID *string    `firestore:"transactionId"`
	AcceptedAt    *time.Time `firestore:"acceptedAt"`
	Images        []string   `firestore:"images"`
}

func (r *workRecord) toEntity(id string) (*entity.Work, error) {
	if r.JobTitle == nil || *r.JobTitle == "" {
		return nil, fmt.Errorf("work %s: missing jobTitle", id)
	}
	owner := str(r.UserID)
	if owner == "" {
		owner = str(r.OwnerID)
	}
	if owner == "" {
		return nil, fmt.Errorf("work %s: missing userId", id)
	}
	if r.Status == nil || !entity.WorkStatus(*r.Status).Valid() {
		return nil, fmt.Errorf("work %s: invalid status %q", id, str(r.Status))
	}

	work := &entity.Work{
		ID:            id,
		JobTitle:      *r.JobTitle,
		Description:   str(r.Description),
		Location:      str(r.Location),
		Category:      str(r.Category),
		UserID:        owner,
		AcceptedBy:    str(r.AcceptedBy),
		Status:        entity.WorkStatus(*r.Status),
		TransactionID: str(r.TransactionID),
		AcceptedAt:    r.AcceptedAt,
		Images:        nonNil(r.Images),
	}

	// An unset, zero or NaN price defers to the legacy budget.
	switch {
	case positive(r.Price):
		work.Price = *r.Price
	case r.Budget != nil && !math.IsNaN(*r.Budget):
		work.Price = *r.Budget
		work.PriceFromBudget = true
	case r.Price != nil:
		if !math.IsNaN(*r.Price) {
			work.Price = *r.Price
		}
	default:
		return nil, fmt.Errorf("work %s: missing price", id)
	}

	if r.StartDate != nil {
		work.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		work.EndDate = *r.EndDate
	}
	if r.CreatedAt != nil {
		work.CreatedAt = *r.CreatedAt
	}

	return work, nil
}

func workFields(w *entity.Work) map[string]interface{} {
	return map[string]interface{}{
		"workId":      w.ID,
		"jobTitle":    w.JobTitle,
		"description": w.Description,
		"price":       w.Price,
		"location":    w.Location,
		"category":    w.Category,
		"startDate":   w.StartDate,
		"endDate":     w.EndDate,
		"createdAt":   w.CreatedAt,
		"userId":      w.UserID,
		"acceptedBy":  nil,
		"status":      string(w.Status),
		"images":      nonNil(w.Images),
	}
}

type notificationRecord struct {
	ToUserID   *string    `firestore:"toUserId"`
	FromUserID *string    `firestore:"fromUserId"`
	WorkID     *string    `firestore:"workId"`
	ComplainID *string    `firestore:"complainId"`
	Message    *string    `firestore:"message"`
	Type       *string    `firestore:"type"`
	Read       *bool      `firestore:"read"`
	CreatedAt  *time.Time `firestore:"createdAt"`
}

func (r *notificationRecord) toEntity(id string) (*entity.Notification, error) {
	if r.ToUserID == nil || *r.ToUserID == "" {
		return nil, fmt.Errorf("notification %s: missing toUserId", id)
	}
	if r.Message == nil {
		return nil, fmt.Errorf("notification %s: missing message", id)
	}

	n := &entity.Notification{
		ID:         id,
		ToUserID:   *r.ToUserID,
		FromUserID: str(r.FromUserID),
		WorkID:     str(r.WorkID),
		ComplainID: str(r.ComplainID),
		Message:    *r.Message,
		Type:       entity.NotificationGeneral,
		Read:       r.Read != nil && *r.Read,
	}
	// Payment notices were historically stored without a type.
	if r.Type != nil && *r.Type != "" {
		n.Type = entity.NotificationType(*r.Type)
	}
	if r.CreatedAt != nil {
		n.CreatedAt = *r.CreatedAt
	}
	return n, nil
}

func notificationFields(n *entity.Notification) map[string]interface{} {
	fields := map[string]interface{}{
		"toUserId":   n.ToUserID,
		"fromUserId": nullable(n.FromUserID),
		"message":    n.Message,
		"type":       string(n.Type),
		"read":       n.Read,
		"createdAt":  firestore.ServerTimestamp,
	}
	if n.WorkID != "" {
		fields["workId"] = n.WorkID
	}
	if n.ComplainID != "" {
		fields["complainId"] = n.ComplainID
	}
	return fields
}

type complaintRecord struct {
	FromUserID *string    `firestore:"fromUserId"`
	Title      *string    `firestore:"title"`
	Details    *string    `firestore:"details"`
	Status     *string    `firestore:"status"`
	CreatedAt  *time.Time `firestore:"createdAt"`
}

func (r *complaintRecord) toEntity(id string) (*entity.Complaint, error) {
	if r.Title == nil || r.Details == nil {
		return nil, fmt.Errorf("complaint %s: missing title or details", id)
	}
	status := entity.ComplaintStatus(str(r.Status))
	if status != entity.ComplaintPending && status != entity.ComplaintSolved {
		return nil, fmt.Errorf("complaint %s: invalid status %q", id, status)
	}

	c := &entity.Complaint{
		ID:         id,
		FromUserID: str(r.FromUserID),
		Title:      *r.Title,
		Details:    *r.Details,
		Status:     status,
	}
	if r.CreatedAt != nil {
		c.CreatedAt = *r.CreatedAt
	}
	return c, nil
}

type walletTransactionRecord struct {
	Type        *string    `firestore:"type"`
	Amount      *float64   `firestore:"amount"`
	WorkID      *string    `firestore:"workId"`
	Description *string    `firestore:"description"`
	Timestamp   *time.Time `firestore:"timestamp"`
}

func (r *walletTransactionRecord) toEntity(id string) (*entity.WalletTransaction, error) {
	if r.Type == nil || r.Amount == nil || r.Timestamp == nil {
		return nil, fmt.Errorf("transaction %s: missing type, amount or timestamp", id)
	}
	return &entity.WalletTransaction{
		ID:          id,
		Type:        *r.Type,
		Amount:      *r.Amount,
		WorkID:      str(r.WorkID),
		Description: str(r.Description),
		Timestamp:   *r.Timestamp,
	}, nil
}

func walletTransactionFields(t *entity.WalletTransaction) map[string]interface{} {
	return map[string]interface{}{
		"type":        t.Type,
		"amount":      t.Amount,
		"workId":      t.WorkID,
		"description": t.Description,
		"timestamp":   t.Timestamp,
	}
}

// decode reads a snapshot into rec; the resource name is used for errors.
func decode(doc *firestore.DocumentSnapshot, rec interface{}, resource string) error {
	if err := doc.DataTo(rec); err != nil {
		return errors.InvalidDocument(resource, err)
	}
	return nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func positive(f *float64) bool {
	return f != nil && *f > 0
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
