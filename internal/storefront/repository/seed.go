package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// seedCatalog returns the demo catalog shipped with the memory backend,
// timestamped relative to now so listing order is stable
func seedCatalog(now time.Time) ([]domain.Product, []domain.Review) {
	now = now.UTC()
	day := 24 * time.Hour

	products := []domain.Product{
		{
			ID:            "1",
			Name:          "AeroGlide Wireless Mouse",
			ImageURL:      "https://picsum.photos/seed/mouse/600/400",
			Price:         decimal.RequireFromString("79.99"),
			AffiliateLink: "#",
			Description:   "Experience ultimate freedom with the AeroGlide wireless mouse. Featuring a 2400 DPI sensor, ergonomic design, and a 70-hour battery life, it's perfect for both work and play.",
		},
		{
			ID:            "2",
			Name:          "ChronoKey Mechanical Keyboard",
			ImageURL:      "https://picsum.photos/seed/keyboard/600/400",
			Price:         decimal.RequireFromString("149.50"),
			AffiliateLink: "#",
			Description:   "The ChronoKey offers a premium typing experience with its clicky mechanical switches, customizable RGB backlighting, and a solid aluminum frame. Built to last and impress.",
		},
		{
			ID:            "3",
			Name:          "CrystalView 4K Monitor",
			ImageURL:      "https://picsum.photos/seed/monitor/600/400",
			Price:         decimal.RequireFromString("499.00"),
			AffiliateLink: "#",
			Description:   "Immerse yourself in stunning detail with the CrystalView 4K monitor. Its 27-inch IPS panel delivers vibrant colors and wide viewing angles, making it ideal for creative professionals.",
		},
		{
			ID:            "4",
			Name:          "SoundSphere Bluetooth Speaker",
			ImageURL:      "https://picsum.photos/seed/speaker/600/400",
			Price:         decimal.RequireFromString("120.00"),
			AffiliateLink: "#",
			Description:   "Take your music anywhere with the SoundSphere. This portable speaker provides 360-degree audio, a waterproof design, and 12 hours of playtime on a single charge.",
		},
		{
			ID:            "5",
			Name:          "NovaStream HD Webcam",
			ImageURL:      "https://picsum.photos/seed/webcam/600/400",
			Price:         decimal.RequireFromString("89.99"),
			AffiliateLink: "#",
			Description:   "Look your best on video calls with the NovaStream webcam. It streams in crisp 1080p at 60fps, features autofocus, and has dual microphones for clear audio.",
		},
		{
			ID:            "6",
			Name:          "ErgoComfort Office Chair",
			ImageURL:      "https://picsum.photos/seed/chair/600/400",
			Price:         decimal.RequireFromString("350.00"),
			AffiliateLink: "#",
			Description:   "Support your posture during long workdays with the ErgoComfort chair. It offers adjustable lumbar support, armrests, and a breathable mesh back for all-day comfort.",
		},
	}
	// Newest first: product 1 is the most recent
	for i := range products {
		products[i].CreatedAt = now.Add(-time.Duration(i+1) * day)
	}

	reviews := []domain.Review{
		{
			ID:        "101",
			ProductID: "1",
			Author:    "user@example.com",
			Content:   "This mouse is incredibly comfortable to use for long periods. The battery life is also a huge plus. Highly recommend it!",
			CreatedAt: now.Add(-day),
		},
		{
			ID:        "102",
			ProductID: "1",
			Author:    domain.AILabel,
			Content:   "The AeroGlide Wireless Mouse delivers on its promises of comfort and longevity, making it a stellar choice for professionals. Its ergonomic shape fits the hand naturally, reducing fatigue during extended use. While the sensor is highly accurate, the software for customization could be more intuitive for beginners. Overall, it's a top-tier peripheral for anyone seeking reliable and comfortable navigation.",
			CreatedAt: now.Add(-12 * time.Hour),
			IsAI:      true,
		},
		{
			ID:        "201",
			ProductID: "2",
			Author:    "dev@example.com",
			Content:   "The typing feel is fantastic, and the build quality is top-notch. The RGB lighting is very vibrant.",
			CreatedAt: now,
		},
	}

	return products, reviews
}
