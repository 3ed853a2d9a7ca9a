package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/emelnikov/linkly/internal/database"
	"github.com/emelnikov/linkly/internal/models"
	"github.com/emelnikov/linkly/internal/service"
	"github.com/emelnikov/linkly/pkg/response"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlersTestSuite) TestCreateLink() {
	const path = "/create-url"

	suite.Run("requires authentication", func() {
		suite.e.POST(path).
			WithJSON(map[string]string{
				"long_url": "https://example.com/a",
			}).
			Expect().
			Status(http.StatusUnauthorized).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.MissingTokenResponse.Message)

		suite.linkSvcMock.AssertNotCalled(suite.T(), "Shorten")
	})

	suite.Run("validation error", func() {
		authHeader := suite.userAuth("1")

		suite.e.POST(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string]string{
				"long_url": "not a url",
			}).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			ContainsKey("message").
			ContainsKey("details")

		suite.linkSvcMock.AssertNotCalled(suite.T(), "Shorten")
	})

	suite.Run("rejected url", func() {
		authHeader := suite.userAuth("1")

		suite.linkSvcMock.
			On("Shorten", mock.Anything, int64(1), "ftp://example.com/a").
			Times(1).
			Return(nil, service.ErrInvalidURL)

		suite.e.POST(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string]string{
				"long_url": "ftp://example.com/a",
			}).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("error", "Invalid URL")

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Shorten", 1)
	})

	suite.Run("server error", func() {
		authHeader := suite.userAuth("1")

		suite.linkSvcMock.
			On("Shorten", mock.Anything, int64(1), "https://example.com/a").
			Times(1).
			Return(nil, errors.New("unknown error"))

		suite.e.POST(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string]string{
				"long_url": "https://example.com/a",
			}).
			Expect().
			Status(http.StatusInternalServerError).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ServerErrorResponse.Message)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Shorten", 1)
	})

	suite.Run("success", func() {
		authHeader := suite.userAuth("1")

		suite.linkSvcMock.
			On("Shorten", mock.Anything, int64(1), "https://example.com/a").
			Times(1).
			Return(&models.Link{
				ID:        1,
				UserID:    1,
				LongURL:   "https://example.com/a",
				ShortURL:  "https://rebrand.ly/abc",
				Domain:    "example.com",
				CreatedAt: time.Now(),
			}, nil)

		suite.e.POST(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string]string{
				"long_url": "https://example.com/a",
			}).
			Expect().
			Status(http.StatusCreated).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object().
			HasValue("long_url", "https://example.com/a").
			HasValue("short_url", "https://rebrand.ly/abc").
			HasValue("domain", "example.com")

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Shorten", 1)
	})
}

func (suite *HandlersTestSuite) TestListLinks() {
	const path = "/url-list"

	suite.Run("server error", func() {
		suite.linkSvcMock.
			On("List", mock.Anything).
			Times(1).
			Return(nil, errors.New("unknown error"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ServerErrorResponse.Message)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "List", 1)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("List", mock.Anything).
			Times(1).
			Return([]models.Link{
				{ID: 1, ShortURL: "https://rebrand.ly/abc"},
				{ID: 2, ShortURL: "https://rebrand.ly/def"},
			}, nil)

		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Array().
			Length().IsEqual(2)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "List", 1)
	})
}

func (suite *HandlersTestSuite) TestListUserLinks() {
	const path = "/user-url-list"

	suite.Run("requires authentication", func() {
		suite.e.GET(path).
			Expect().
			Status(http.StatusUnauthorized).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.MissingTokenResponse.Message)
	})

	suite.Run("success", func() {
		authHeader := suite.userAuth("1")

		suite.linkSvcMock.
			On("ListByUser", mock.Anything, int64(1)).
			Times(1).
			Return([]models.Link{
				{ID: 1, UserID: 1, ShortURL: "https://rebrand.ly/abc"},
			}, nil)

		suite.e.GET(path).
			WithHeader("Authorization", authHeader).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Array().
			Length().IsEqual(1)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "ListByUser", 1)
	})
}

func (suite *HandlersTestSuite) TestIncrementCopyCount() {
	const path = "/copy-count/%s"

	suite.Run("invalid id", func() {
		suite.e.POST(fmt.Sprintf(path, "abc")).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.BadRequestResponse.Message)

		suite.linkSvcMock.AssertNotCalled(suite.T(), "IncrementCopyCount")
	})

	suite.Run("not found", func() {
		suite.linkSvcMock.
			On("IncrementCopyCount", mock.Anything, int64(7)).
			Times(1).
			Return(nil, database.ErrLinkNotFound)

		suite.e.POST(fmt.Sprintf(path, "7")).
			Expect().
			Status(http.StatusNotFound).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ResourceNotFoundResponse.Message)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "IncrementCopyCount", 1)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("IncrementCopyCount", mock.Anything, int64(1)).
			Times(1).
			Return(&models.Link{
				ID:        1,
				CopyCount: 4,
				CreatedAt: time.Now(),
			}, nil)

		suite.e.POST(fmt.Sprintf(path, "1")).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object().
			HasValue("copy_count", 4)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "IncrementCopyCount", 1)
	})
}

func (suite *HandlersTestSuite) TestDeleteLink() {
	const path = "/urls/%s"

	suite.Run("invalid id", func() {
		suite.e.DELETE(fmt.Sprintf(path, "0")).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.BadRequestResponse.Message)

		suite.linkSvcMock.AssertNotCalled(suite.T(), "Delete")
	})

	suite.Run("not found", func() {
		suite.linkSvcMock.
			On("Delete", mock.Anything, int64(7)).
			Times(1).
			Return(database.ErrLinkNotFound)

		suite.e.DELETE(fmt.Sprintf(path, "7")).
			Expect().
			Status(http.StatusNotFound).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ResourceNotFoundResponse.Message)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Delete", 1)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("Delete", mock.Anything, int64(1)).
			Times(1).
			Return(nil)

		suite.e.DELETE(fmt.Sprintf(path, "1")).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message")

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Delete", 1)
	})
}

func (suite *HandlersTestSuite) TestDeleteBulkLinks() {
	const path = "/urls/bulk"

	suite.Run("requires admin", func() {
		authHeader := suite.userAuth("1")

		suite.e.DELETE(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string][]int64{
				"ids": {1, 2},
			}).
			Expect().
			Status(http.StatusForbidden).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ForbiddenResponse.Message)

		suite.linkSvcMock.AssertNotCalled(suite.T(), "DeleteBulk")
	})

	suite.Run("validation error", func() {
		authHeader := suite.adminAuth("1")

		suite.e.DELETE(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string][]int64{
				"ids": {},
			}).
			Expect().
			Status(http.StatusBadRequest).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			ContainsKey("message").
			ContainsKey("details")

		suite.linkSvcMock.AssertNotCalled(suite.T(), "DeleteBulk")
	})

	suite.Run("success", func() {
		authHeader := suite.adminAuth("1")

		suite.linkSvcMock.
			On("DeleteBulk", mock.Anything, []int64{1, 2, 3}).
			Times(1).
			Return(int64(2), nil)

		suite.e.DELETE(path).
			WithHeader("Authorization", authHeader).
			WithJSON(map[string][]int64{
				"ids": {1, 2, 3},
			}).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object().
			HasValue("deleted", 2)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "DeleteBulk", 1)
	})
}

func (suite *HandlersTestSuite) TestDeleteAllLinks() {
	const path = "/urls/all"

	suite.Run("success", func() {
		authHeader := suite.adminAuth("1")

		suite.linkSvcMock.
			On("DeleteAll", mock.Anything).
			Times(1).
			Return(int64(5), nil)

		suite.e.DELETE(path).
			WithHeader("Authorization", authHeader).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object().
			HasValue("deleted", 5)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "DeleteAll", 1)
	})
}

func (suite *HandlersTestSuite) TestDashboard() {
	const path = "/dashboard"

	suite.Run("server error", func() {
		suite.linkSvcMock.
			On("Dashboard", mock.Anything).
			Times(1).
			Return(nil, errors.New("unknown error"))

		suite.e.GET(path).
			Expect().
			Status(http.StatusInternalServerError).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.ServerErrorResponse.Message)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Dashboard", 1)
	})

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("Dashboard", mock.Anything).
			Times(1).
			Return(&models.LinkStats{
				TotalLinks:  4,
				TotalCopies: 9,
				Domains:     []string{"example.com", "example.org"},
			}, nil)

		suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object().
			HasValue("total_links", 4).
			HasValue("total_copies", 9).
			Value("domains").Array().
			Length().IsEqual(2)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Dashboard", 1)
	})
}

func (suite *HandlersTestSuite) TestCharts() {
	const path = "/chart"

	suite.Run("success", func() {
		suite.linkSvcMock.
			On("Charts", mock.Anything).
			Times(1).
			Return(&models.ChartData{
				Daily: []models.BucketCount{
					{Bucket: "2024-01-01", Count: 2},
					{Bucket: "2024-01-02", Count: 1},
				},
				Monthly: []models.BucketCount{
					{Bucket: "2024-01", Count: 3},
				},
			}, nil)

		obj := suite.e.GET(path).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object()

		obj.Value("daily").Array().Length().IsEqual(2)
		obj.Value("monthly").Array().Value(0).Object().
			HasValue("bucket", "2024-01").
			HasValue("count", 3)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "Charts", 1)
	})
}

func (suite *HandlersTestSuite) TestUserCharts() {
	const path = "/user-charts"

	suite.Run("requires authentication", func() {
		suite.e.GET(path).
			Expect().
			Status(http.StatusUnauthorized).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusError).
			HasValue("message", response.MissingTokenResponse.Message)
	})

	suite.Run("success", func() {
		authHeader := suite.userAuth("1")

		suite.linkSvcMock.
			On("UserCharts", mock.Anything, int64(1)).
			Times(1).
			Return(&models.ChartData{
				Daily:   []models.BucketCount{{Bucket: "2024-01-02", Count: 1}},
				Monthly: []models.BucketCount{{Bucket: "2024-01", Count: 1}},
			}, nil)

		obj := suite.e.GET(path).
			WithHeader("Authorization", authHeader).
			Expect().
			Status(http.StatusOK).
			HasContentType("application/json").
			JSON().Object().
			HasValue("status", response.StatusSuccess).
			ContainsKey("message").
			Value("data").Object()

		obj.Value("daily").Array().Length().IsEqual(1)
		obj.Value("monthly").Array().Length().IsEqual(1)

		suite.linkSvcMock.AssertNumberOfCalls(suite.T(), "UserCharts", 1)
	})
}
