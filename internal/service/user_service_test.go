package service

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shoppingmall/internal/constants"
	"github.com/shoppingmall/internal/models"
	"github.com/shoppingmall/internal/repository"
	"github.com/shoppingmall/internal/storage"

	"gorm.io/gorm"
)

func setupUserServiceTest(t *testing.T) (*UserService, *gorm.DB, *storage.LocalStorage) {
	t.Helper()
	db := setupServiceTestDB(t)
	uploads, store := newTestUploads(t)
	svc := NewUserService(
		repository.NewUserRepository(db),
		repository.NewFanRepository(db),
		repository.NewCascadeRepository(db),
		uploads,
		NewFileCleaner(store, nil),
		nil,
	)
	return svc, db, store
}

func TestFollowRules(t *testing.T) {
	svc, db, _ := setupUserServiceTest(t)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	if err := svc.Follow(alice.ID, alice.ID); !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow want ErrSelfFollow got %v", err)
	}
	if err := svc.Follow(alice.ID, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown target want ErrUserNotFound got %v", err)
	}
	if err := svc.Follow(alice.ID, bob.ID); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := svc.Follow(alice.ID, bob.ID); !errors.Is(err, ErrAlreadyFollowing) {
		t.Fatalf("duplicate follow want ErrAlreadyFollowing got %v", err)
	}

	bobDetail, err := svc.GetDetail(bob.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if bobDetail.FanNum != 1 || bobDetail.SubscribeNum != 0 {
		t.Fatalf("bob counters want fan=1 subscribe=0 got fan=%d subscribe=%d", bobDetail.FanNum, bobDetail.SubscribeNum)
	}
	aliceDetail, err := svc.GetDetail(alice.ID)
	if err != nil {
		t.Fatalf("get detail failed: %v", err)
	}
	if aliceDetail.SubscribeNum != 1 {
		t.Fatalf("alice subscribe_num want 1 got %d", aliceDetail.SubscribeNum)
	}

	fans, err := svc.ListFans(bob.ID)
	if err != nil {
		t.Fatalf("list fans failed: %v", err)
	}
	if len(fans) != 1 || fans[0].ID != alice.ID {
		t.Fatalf("bob fans want [alice] got %+v", fans)
	}

	if err := svc.Unfollow(alice.ID, bob.ID); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	if err := svc.Unfollow(alice.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second unfollow want ErrNotFound got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db, _ := setupUserServiceTest(t)
	user := createTestUser(t, db, "frank")
	ctx := context.Background()

	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("empty update want ErrProfileEmpty got %v", err)
	}
	bad := "x"
	if _, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Sex: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("invalid sex want ErrValidation got %v", err)
	}
	sex := constants.UserSexFemale
	phone := "13900000000"
	detail, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Sex: &sex, Phone: &phone})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if detail.Sex != sex || detail.Phone != phone {
		t.Fatalf("profile not updated: %+v", detail)
	}
}

func TestUploadIconReplacesOldFile(t *testing.T) {
	svc, db, store := setupUserServiceTest(t)
	user := createTestUser(t, db, "grace")
	files := pngFileHeaders(t, 2)

	first, err := svc.UploadIcon(context.Background(), user.ID, files[0])
	if err != nil {
		t.Fatalf("upload icon failed: %v", err)
	}
	second, err := svc.UploadIcon(context.Background(), user.ID, files[1])
	if err != nil {
		t.Fatalf("replace icon failed: %v", err)
	}
	if first.Icon == second.Icon {
		t.Fatalf("icon url should change")
	}
	if _, err := os.Stat(storedPath(store, first.Icon)); !os.IsNotExist(err) {
		t.Fatalf("old icon should be removed, stat err=%v", err)
	}
	if _, err := os.Stat(storedPath(store, second.Icon)); err != nil {
		t.Fatalf("new icon should exist: %v", err)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	svc, db, _ := setupUserServiceTest(t)
	owner := createTestUser(t, db, "owner")
	other := createTestUser(t, db, "other")
	product, variants := createTestProduct(t, db, "键盘", true, true, 99)
	otherProduct, _ := createTestProduct(t, db, "鼠标", true, true, 49)

	address := createTestAddress(t, db, owner.ID)
	createTestOrder(t, db, owner.ID, address.ID, variants[0].ID, constants.OrderStatusReceived)
	if err := db.Create(&models.CartItem{UserID: owner.ID, VariantID: variants[0].ID, Quantity: 2}).Error; err != nil {
		t.Fatalf("create cart item failed: %v", err)
	}
	if err := db.Create(&models.Favorite{UserID: owner.ID, ProductID: product.ID}).Error; err != nil {
		t.Fatalf("create favorite failed: %v", err)
	}
	post := createTestPost(t, db, owner.ID, "我的帖子", true)
	if err := db.Create(&models.PostLike{PostID: post.ID, UserID: other.ID}).Error; err != nil {
		t.Fatalf("create like failed: %v", err)
	}
	if err := db.Create(&models.Fan{UserID: owner.ID, FanID: other.ID}).Error; err != nil {
		t.Fatalf("create fan failed: %v", err)
	}

	if err := svc.DeleteAccount(context.Background(), owner.ID); err != nil {
		t.Fatalf("delete account failed: %v", err)
	}

	owned := map[string]interface{}{
		"users":      &models.User{},
		"addresses":  &models.Address{},
		"orders":     &models.Order{},
		"cart_items": &models.CartItem{},
		"favorites":  &models.Favorite{},
		"posts":      &models.Post{},
	}
	for name, model := range owned {
		var count int64
		query := db.Model(model)
		if name == "users" {
			query = query.Where("id = ?", owner.ID)
		} else {
			query = query.Where("user_id = ?", owner.ID)
		}
		if err := query.Count(&count).Error; err != nil {
			t.Fatalf("count %s failed: %v", name, err)
		}
		if count != 0 {
			t.Fatalf("%s rows should be deleted, got %d", name, count)
		}
	}
	var likeCount, imageCount, fanCount int64
	db.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likeCount)
	db.Model(&models.PostImage{}).Where("post_id = ?", post.ID).Count(&imageCount)
	db.Model(&models.Fan{}).Where("user_id = ? OR fan_id = ?", owner.ID, owner.ID).Count(&fanCount)
	if likeCount != 0 || imageCount != 0 || fanCount != 0 {
		t.Fatalf("dependent rows should be deleted, likes=%d images=%d fans=%d", likeCount, imageCount, fanCount)
	}

	var productCount, categoryCount int64
	db.Model(&models.BaseProduct{}).Where("id IN ?", []uint{product.ID, otherProduct.ID}).Count(&productCount)
	db.Model(&models.Category{}).Count(&categoryCount)
	if productCount != 2 || categoryCount != 1 {
		t.Fatalf("catalog should be untouched, products=%d categories=%d", productCount, categoryCount)
	}
	var otherUser int64
	db.Model(&models.User{}).Where("id = ?", other.ID).Count(&otherUser)
	if otherUser != 1 {
		t.Fatalf("unrelated user should remain")
	}
}
