package department_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nxthub/influencer-ops/internal/department"
)

var _ = Describe("ParseRows", func() {
	It("maps 'Department Name' and 'HOD' headers", func() {
		rows := [][]string{
			{"Department Name", "HOD"},
			{"Growth", "Meera"},
			{"Brand", "Arjun"},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(HaveLen(2))
		Expect(parsed[0]).To(Equal(department.ImportRow{Line: 2, Name: "Growth", HodName: "Meera"}))
		Expect(parsed[1]).To(Equal(department.ImportRow{Line: 3, Name: "Brand", HodName: "Arjun"}))
	})

	It("accepts header variants like 'department_name' and 'HOD Name'", func() {
		rows := [][]string{
			{"department_name", "HOD Name"},
			{"Growth", "Meera"},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed[0].Name).To(Equal("Growth"))
		Expect(parsed[0].HodName).To(Equal("Meera"))
	})

	It("accepts a bare 'name' header for the department column", func() {
		rows := [][]string{
			{"Name"},
			{"Growth"},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed[0].Name).To(Equal("Growth"))
	})

	It("ignores unrelated columns", func() {
		rows := [][]string{
			{"Sl No", "Department", "Remarks", "HOD"},
			{"1", "Growth", "new team", "Meera"},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed[0]).To(Equal(department.ImportRow{Line: 2, Name: "Growth", HodName: "Meera"}))
	})

	It("skips fully empty lines but keeps the original line numbers", func() {
		rows := [][]string{
			{"Department", "HOD"},
			{"Growth", "Meera"},
			{"", ""},
			{"Brand", ""},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(HaveLen(2))
		Expect(parsed[1].Line).To(Equal(4))
	})

	It("keeps a row that has a HOD but no name so it can be reported", func() {
		rows := [][]string{
			{"Department", "HOD"},
			{"", "Orphan Head"},
		}

		parsed, err := department.ParseRows(rows)

		Expect(err).ToNot(HaveOccurred())
		Expect(parsed).To(HaveLen(1))
		Expect(parsed[0].Name).To(Equal(""))
		Expect(parsed[0].HodName).To(Equal("Orphan Head"))
	})

	It("errors on an empty workbook", func() {
		_, err := department.ParseRows(nil)

		Expect(err).To(HaveOccurred())
	})

	It("errors when no header cell is recognizable", func() {
		rows := [][]string{
			{"Sl No", "Remarks"},
			{"1", "nothing useful"},
		}

		_, err := department.ParseRows(rows)

		Expect(err).To(HaveOccurred())
	})
})
