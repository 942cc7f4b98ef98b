package repository

import (
	bookingRepo "hausly/database/repository/booking"
	categoryRepo "hausly/database/repository/category"
	favoriteRepo "hausly/database/repository/favorite"
	messageRepo "hausly/database/repository/message"
	profileRepo "hausly/database/repository/profile"
	reviewRepo "hausly/database/repository/review"
	serviceRepo "hausly/database/repository/service"
	userRepo "hausly/database/repository/user"
)

// Re-export the repository interfaces.
type (
	UserRepository     = userRepo.UserRepository
	ServiceRepository  = serviceRepo.ServiceRepository
	BookingRepository  = bookingRepo.BookingRepository
	ReviewRepository   = reviewRepo.ReviewRepository
	MessageRepository  = messageRepo.MessageRepository
	FavoriteRepository = favoriteRepo.FavoriteRepository
	CategoryRepository = categoryRepo.CategoryRepository
	ProfileRepository  = profileRepo.ProfileRepository
)

// Repositories bundles every Mongo-backed store the server needs.
type Repositories struct {
	Users      UserRepository
	Services   ServiceRepository
	Bookings   BookingRepository
	Reviews    ReviewRepository
	Messages   MessageRepository
	Favorites  FavoriteRepository
	Categories CategoryRepository
	Profiles   ProfileRepository
}

// NewMongoRepositories builds all repositories on the global client. Call after database.InitDB.
func NewMongoRepositories(useTransactions bool) *Repositories {
	return &Repositories{
		Users:      userRepo.NewMongoUserRepo(),
		Services:   serviceRepo.NewMongoServiceRepo(),
		Bookings:   bookingRepo.NewMongoBookingRepo(useTransactions),
		Reviews:    reviewRepo.NewMongoReviewRepo(),
		Messages:   messageRepo.NewMongoMessageRepo(),
		Favorites:  favoriteRepo.NewMongoFavoriteRepo(),
		Categories: categoryRepo.NewMongoCategoryRepo(),
		Profiles:   profileRepo.NewMongoProfileRepo(),
	}
}
