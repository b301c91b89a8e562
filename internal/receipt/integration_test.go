package receipt

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Integration", func() {
	var (
		storagePath string
		store       Storage
		server      *Server
		ghServer    *ghttp.Server
	)

	BeforeEach(func() {
		storagePath = filepath.Join(GinkgoT().TempDir(), "results")

		var err error
		store, err = NewLocalStorage(storagePath)
		Expect(err).NotTo(HaveOccurred())

		service := NewServiceWithDeps(newMockScanner(), store, &mockIDGenerator{id: "int-1"}, &mockTimeSource{})
		server = NewServer(service, BasicAuth{}) // No auth for testing convenience

		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		ghServer.Close()
	})

	It("should scan an upload, serve the stored result and render it", func() {
		// One handler per request
		ghServer.AppendHandlers(server.ServeHTTP, server.ServeHTTP, server.ServeHTTP, server.ServeHTTP)

		// --- Step 1: upload ---
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("image", "receipt.pdf")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write([]byte("%PDF-1.4 ... fake pdf content ..."))
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/receipts", writer.FormDataContentType(), body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("X-Result-File")).To(Equal("receipt-int-1.json"))
		Expect(filepath.Join(storagePath, "receipt-int-1.json")).To(BeAnExistingFile())

		scanned, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		// --- Step 2: fetch the stored result ---
		fileResp, err := http.Get(ghServer.URL() + "/api/files/receipt-int-1.json")
		Expect(err).NotTo(HaveOccurred())
		defer fileResp.Body.Close()
		Expect(fileResp.StatusCode).To(Equal(http.StatusOK))

		stored, err := io.ReadAll(fileResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(stored).To(MatchJSON(scanned))

		// --- Step 3: render the stored result ---
		renderResp, err := http.Post(ghServer.URL()+"/api/receipts/render", "application/json", bytes.NewReader(stored))
		Expect(err).NotTo(HaveOccurred())
		defer renderResp.Body.Close()
		Expect(renderResp.StatusCode).To(Equal(http.StatusOK))

		var rendered Rendered
		renderBody, err := io.ReadAll(renderResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(json.Unmarshal(renderBody, &rendered)).To(Succeed())

		// --- Step 4: download the image ---
		imgResp, err := http.Get(ghServer.URL() + rendered.Path)
		Expect(err).NotTo(HaveOccurred())
		defer imgResp.Body.Close()
		Expect(imgResp.StatusCode).To(Equal(http.StatusOK))
		Expect(imgResp.Header.Get("Content-Type")).To(Equal("image/png"))

		img, err := png.Decode(imgResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(img.Bounds().Dy()).To(Equal(340))
	})
})
