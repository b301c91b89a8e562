package receipt

import (
	"io/fs"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "results"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create the storage directory", func() {
		Expect(filepath.Join(tmpDir, "results")).To(BeADirectory())
	})

	Describe("Save", func() {
		var (
			filename  string
			savedName string
			err       error
		)

		BeforeEach(func() {
			filename = "receipt-abc.json"
		})

		JustBeforeEach(func() {
			savedName, err = storage.Save(filename, []byte(`{"items":[]}`))
		})

		When("the name is a plain file name", func() {
			It("should return the name", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedName).To(Equal("receipt-abc.json"))
			})

			It("should write the file to disk", func() {
				Expect(filepath.Join(tmpDir, "results", "receipt-abc.json")).To(BeAnExistingFile())
			})
		})

		When("the name escapes the storage directory", func() {
			BeforeEach(func() {
				filename = "../escape.json"
			})

			It("should reject it", func() {
				Expect(err).To(MatchError(ErrInvalidFilename))
			})

			It("should not write outside the directory", func() {
				Expect(filepath.Join(tmpDir, "escape.json")).NotTo(BeAnExistingFile())
			})
		})
	})

	DescribeTable("rejects names that are not plain",
		func(name string) {
			_, err := storage.Get(name)
			Expect(err).To(MatchError(ErrInvalidFilename))
		},
		Entry("empty", ""),
		Entry("dot", "."),
		Entry("parent", ".."),
		Entry("nested", "a/b.json"),
		Entry("backslash", `a\b.json`),
	)

	Describe("Get", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("receipt-1.png", []byte("png bytes"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return its data", func() {
				data, err := storage.Get("receipt-1.png")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("png bytes"))
			})
		})

		When("the file does not exist", func() {
			It("should return a not-exist error", func() {
				_, err := storage.Get("missing.png")
				Expect(err).To(MatchError(ContainSubstring("reading file")))
				Expect(err).To(MatchError(fs.ErrNotExist))
			})
		})
	})

	Describe("Delete", func() {
		When("the file exists", func() {
			BeforeEach(func() {
				Expect(os.WriteFile(filepath.Join(tmpDir, "results", "receipt-2.json"), []byte("{}"), 0644)).To(Succeed())
			})

			It("should remove it", func() {
				Expect(storage.Delete("receipt-2.json")).To(Succeed())
				Expect(filepath.Join(tmpDir, "results", "receipt-2.json")).NotTo(BeAnExistingFile())
			})
		})

		When("the file does not exist", func() {
			It("should return the error", func() {
				err := storage.Delete("missing.json")
				Expect(err).To(MatchError(ContainSubstring("deleting file")))
			})
		})
	})
})
